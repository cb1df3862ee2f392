package journal

import "errors"

var (
	ErrInvalidEntry = errors.New("journal: invalid entry")
	ErrStoreFailed  = errors.New("journal: failed to store entry")
	ErrListFailed   = errors.New("journal: failed to list entries")
)

// Validate checks the fields every backend relies on.
func (e Entry) Validate() error {
	switch {
	case e.ID == "":
		return errors.Join(ErrInvalidEntry, errors.New("id is required"))
	case e.Kind == "":
		return errors.Join(ErrInvalidEntry, errors.New("kind is required"))
	case e.CreatedAt.IsZero():
		return errors.Join(ErrInvalidEntry, errors.New("created_at is required"))
	}
	return nil
}
