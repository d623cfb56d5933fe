package testutil

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

// MemStore is an in-memory tree store with the same path semantics as the
// Realtime Database adapter: slash-separated paths, multi-path Update where
// a nil value deletes, empty branches treated as absent.
type MemStore struct {
	mu   sync.Mutex
	root map[string]any

	// FailUpdate, when set, makes the next Update call return this error
	// without applying anything.
	FailUpdate error
}

func NewMemStore() *MemStore {
	return &MemStore{root: map[string]any{}}
}

func splitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// node returns the value at path, or nil if absent. Empty maps count as
// absent, matching how the Realtime Database prunes empty branches.
func (s *MemStore) node(path string) any {
	var cur any = s.root
	for _, seg := range splitPath(path) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	if m, ok := cur.(map[string]any); ok && len(m) == 0 {
		return nil
	}
	return cur
}

func (s *MemStore) set(path string, v any) {
	segs := splitPath(path)
	if len(segs) == 0 {
		if m, ok := v.(map[string]any); ok {
			s.root = m
		}
		return
	}
	cur := s.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	last := segs[len(segs)-1]
	if v == nil {
		delete(cur, last)
		return
	}
	cur[last] = v
}

// normalize round-trips v through JSON so stored values look the way the
// database client would return them.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MemStore) Get(_ context.Context, path string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.node(path)
	if node == nil {
		return nil
	}
	raw, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (s *MemStore) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.node(path) != nil, nil
}

func (s *MemStore) Set(_ context.Context, path string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	norm, err := normalize(v)
	if err != nil {
		return err
	}
	s.set(path, norm)
	return nil
}

func (s *MemStore) Update(_ context.Context, updates map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdate != nil {
		err := s.FailUpdate
		s.FailUpdate = nil
		return err
	}
	for path, v := range updates {
		norm, err := normalize(v)
		if err != nil {
			return err
		}
		s.set(path, norm)
	}
	return nil
}

func (s *MemStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(path, nil)
	return nil
}

// Seed writes a value at path, failing the test on error.
func (s *MemStore) Seed(t *testing.T, path string, v any) {
	t.Helper()
	if err := s.Set(context.Background(), path, v); err != nil {
		t.Fatalf("seeding %s: %v", path, err)
	}
}

// Value returns the raw value stored at path, or nil if absent.
func (s *MemStore) Value(path string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.node(path)
}

// Has reports whether anything is stored at path.
func (s *MemStore) Has(path string) bool {
	return s.Value(path) != nil
}

// GetInto unmarshals the value at path into v, failing the test on error.
func (s *MemStore) GetInto(t *testing.T, path string, v any) {
	t.Helper()
	if err := s.Get(context.Background(), path, v); err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
}

// Number returns the value at path coerced to int64, failing the test if
// the value is absent or not numeric.
func (s *MemStore) Number(t *testing.T, path string) int64 {
	t.Helper()
	v := s.Value(path)
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("value at %s is %T (%v), not a number", path, v, v)
	}
	return int64(f)
}

// String returns the value at path as a string, failing the test otherwise.
func (s *MemStore) String(t *testing.T, path string) string {
	t.Helper()
	v := s.Value(path)
	str, ok := v.(string)
	if !ok {
		t.Fatalf("value at %s is %T (%v), not a string", path, v, v)
	}
	return str
}
