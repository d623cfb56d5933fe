package database

import (
	"context"

	"firebase.google.com/go/messaging"
)

// FCMMessenger sends multicast pushes through Firebase Cloud Messaging and
// classifies per-token failures.
type FCMMessenger struct {
	client *messaging.Client
}

func NewFCMMessenger(client *messaging.Client) *FCMMessenger {
	return &FCMMessenger{client: client}
}

// PushMessage is one title/body pair plus a flat data payload fanned out to
// a token set.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushResult reports a multicast send. StaleTokens holds exactly the tokens
// the delivery service rejected as invalid or unregistered; other failures
// are counted but the tokens are kept for the next attempt.
type PushResult struct {
	SuccessCount int
	FailureCount int
	StaleTokens  []string
}

func (m *FCMMessenger) SendMulticast(ctx context.Context, tokens []string, msg PushMessage) (*PushResult, error) {
	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data:   msg.Data,
		Tokens: tokens,
	}

	resp, err := m.client.SendMulticast(ctx, message)
	if err != nil {
		return nil, err
	}

	result := &PushResult{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
	}
	for i, r := range resp.Responses {
		if r.Success || r.Error == nil {
			continue
		}
		if messaging.IsRegistrationTokenNotRegistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
			result.StaleTokens = append(result.StaleTokens, tokens[i])
		}
	}
	return result, nil
}
