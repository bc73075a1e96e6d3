package objectstore

import "github.com/lithammer/shortuuid/v4"

// NameLength is the length of every generated object name.
const NameLength = 22

// NewName returns a random object name: a v4 UUID in base57.
func NewName() string {
	return shortuuid.New()
}
