package effect

import "github.com/google/uuid"

// ID is an opaque token correlating a running effect with later cancel or
// forget requests. The zero value is invalid and ignored by the registry.
type ID struct {
	value string
}

// NewID returns a fresh unique id.
func NewID() ID {
	return ID{value: uuid.New().String()}
}

// IDOf returns an id backed by a caller-supplied name. Two calls with the
// same name yield equal ids.
func IDOf(name string) ID {
	return ID{value: name}
}

func (id ID) IsZero() bool { return id.value == "" }

func (id ID) String() string { return id.value }

// MarshalBinary lets ids ride inside gob-encoded state snapshots despite
// the unexported backing field.
func (id ID) MarshalBinary() ([]byte, error) {
	return []byte(id.value), nil
}

func (id *ID) UnmarshalBinary(data []byte) error {
	id.value = string(data)
	return nil
}
