// Package store defines the contract for the remote data collaborator: a
// table-like service reachable by collection name, equality filter, and
// ordering. Implementations translate their own failure modes into domain
// errors so callers can branch on stable codes.
package store

import (
	"context"
	"encoding/json"

	"helpy/internal/directory/models"
)

// Query narrows a collection read. Zero value selects everything in the
// collection's natural order.
type Query struct {
	// FilterField/FilterValue apply a single equality filter.
	FilterField string
	FilterValue string

	// OrderField sorts results ascending unless OrderDesc is set.
	OrderField string
	OrderDesc  bool
}

// RemoteStore is the remote data collaborator. Rows travel as raw JSON so the
// caller can normalize them into the record shape of the requested entity
// kind without the store knowing about entity types.
//
// Error contract:
//   - SelectOne returns CodeNotFound when the row is absent.
//   - Any transport, authorization, or parse failure maps to
//     CodeRemoteUnavailable (or CodeTimeout when the deadline expired).
type RemoteStore interface {
	Select(ctx context.Context, collection models.Collection, q Query) ([]json.RawMessage, error)
	SelectOne(ctx context.Context, collection models.Collection, id string) (json.RawMessage, error)
	Insert(ctx context.Context, collection models.Collection, row any) error
	Update(ctx context.Context, collection models.Collection, id string, row any) error
}
