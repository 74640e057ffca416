package shortener

import "context"

// Store is the persistence contract the services depend on.
//
// Implementations key records solely by Code, so a code never has more than
// one record and Get needs no tie-break.
type Store interface {
	// TryCreate writes m only if no live record exists for m.Code, where a
	// record is live unless its ExpiresAt is before m.CreatedAt. The check and
	// the write must be one atomic backend operation. It reports false, not an
	// error, when the code is taken.
	TryCreate(ctx context.Context, m *Mapping) (created bool, err error)

	// Get returns the record for code, expired or not, or ErrNotFound.
	Get(ctx context.Context, code Code) (*Mapping, error)
}
