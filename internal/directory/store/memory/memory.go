// Package memory provides an in-memory implementation of the remote store
// contract. It backs demo mode and tests; failure injection lets resilience
// paths be exercised without a network.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"helpy/internal/directory/models"
	"helpy/internal/directory/store"
	dErrors "helpy/pkg/domain-errors"
)

// Store implements store.RemoteStore over process memory.
type Store struct {
	mu          sync.RWMutex
	collections map[models.Collection][]map[string]any
	failWith    error
}

// Ensure Store implements RemoteStore.
var _ store.RemoteStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		collections: make(map[models.Collection][]map[string]any),
	}
}

// FailWith makes every subsequent operation return err, simulating a
// collaborator outage. Pass nil to restore normal behavior.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Seed replaces a collection's rows. Rows are deep-copied through JSON so
// later mutations of the originals cannot leak in.
func (s *Store) Seed(collection models.Collection, rows ...any) error {
	converted := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		m, err := toMap(row)
		if err != nil {
			return err
		}
		converted = append(converted, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = converted
	return nil
}

// Select returns the collection's rows with the query's filter and order applied.
func (s *Store) Select(_ context.Context, collection models.Collection, q store.Query) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}

	rows := make([]map[string]any, 0, len(s.collections[collection]))
	for _, row := range s.collections[collection] {
		if q.FilterField != "" && stringify(row[q.FilterField]) != q.FilterValue {
			continue
		}
		rows = append(rows, row)
	}

	if q.OrderField != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			less := lessValues(rows[i][q.OrderField], rows[j][q.OrderField])
			if q.OrderDesc {
				return !less && !equalValues(rows[i][q.OrderField], rows[j][q.OrderField])
			}
			return less
		})
	}

	out := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		raw, err := json.Marshal(row)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to marshal row")
		}
		out = append(out, raw)
	}
	return out, nil
}

// SelectOne returns the row whose id field matches, or CodeNotFound.
func (s *Store) SelectOne(_ context.Context, collection models.Collection, id string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}

	for _, row := range s.collections[collection] {
		if stringify(row["id"]) == id {
			raw, err := json.Marshal(row)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to marshal row")
			}
			return raw, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no row with id %s in %s", id, collection))
}

// Insert appends one row to a collection.
func (s *Store) Insert(_ context.Context, collection models.Collection, row any) error {
	m, err := toMap(row)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.collections[collection] = append(s.collections[collection], m)
	return nil
}

// Update merges fields into the row with the given id, or returns CodeNotFound.
func (s *Store) Update(_ context.Context, collection models.Collection, id string, row any) error {
	m, err := toMap(row)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}

	for _, existing := range s.collections[collection] {
		if stringify(existing["id"]) == id {
			for k, v := range m {
				existing[k] = v
			}
			return nil
		}
	}
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no row with id %s in %s", id, collection))
}

func toMap(row any) (map[string]any, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to marshal row")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "row is not an object")
	}
	return m, nil
}

// stringify renders a field value the way it appears in a URL filter, so
// numeric identifiers compare equal to their string form.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func lessValues(a, b any) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	return stringify(a) < stringify(b)
}

func equalValues(a, b any) bool {
	return !lessValues(a, b) && !lessValues(b, a)
}
