package domain

import "fmt"

// ObjectID is a 24-character lowercase hex reference, the identifier format
// the backend uses for users, projects, tasks and entries.
type ObjectID string

const objectIDLength = 24

func (id ObjectID) Validate() error {
	if len(id) != objectIDLength {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	for _, c := range id {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}

	return nil
}

func ParseObjectID(raw string) (ObjectID, error) {
	id := ObjectID(raw)
	if err := id.Validate(); err != nil {
		return "", err
	}

	return id, nil
}
