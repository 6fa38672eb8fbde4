package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"
)

// IDLength of array used to store the ID.
const IDLength = 16

// ID identifies a network connection
type ID [IDLength]byte

// GenerateID generates a new ID
func GenerateID() (*ID, error) {
	id := new(ID)
	_, err := rand.Read(id[:])
	if err != nil {
		return nil, errors.Wrap(err, "couldn't generate an ID")
	}
	return id, nil
}

// IsEqual returns whether id equals other.
func (id *ID) IsEqual(other *ID) bool {
	return *id == *other
}

func (id *ID) String() string {
	return hex.EncodeToString(id[:])
}
