// Package service provides business logic for the application.
package service

import "github.com/oklog/ulid/v2"

// newID generates a ULID string for new entities.
// ULIDs sort lexicographically by creation time, which keeps the
// created_at ordering used by list queries stable.
func newID() string {
	return ulid.Make().String()
}
