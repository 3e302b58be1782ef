package models

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Kind tags the entity type addressed by a Key.
type Kind string

const (
	KindAccount     Kind = "Account"
	KindTransaction Kind = "Transaction"
	KindCategory    Kind = "Category"
	KindSubcategory Kind = "Subcategory"
	KindPlace       Kind = "Place"
)

var ErrMalformedKey = errors.New("malformed key")

// maxIDLen bounds stored IDs; UUIDs and Firestore auto-IDs fit well within it.
const maxIDLen = 128

var knownKinds = map[Kind]struct{}{
	KindAccount:     {},
	KindTransaction: {},
	KindCategory:    {},
	KindSubcategory: {},
	KindPlace:       {},
}

// Valid reports whether k is a registered kind.
func (k Kind) Valid() bool {
	_, ok := knownKinds[k]
	return ok
}

// Key is the globally unique, self-describing address of a stored entity.
// A key with an empty ID is incomplete; the store allocates the ID on Put.
type Key struct {
	Kind Kind
	ID   string
}

// NewIncompleteKey returns a key that only names a kind.
func NewIncompleteKey(kind Kind) Key {
	return Key{Kind: kind}
}

func (k Key) Incomplete() bool {
	return k.ID == ""
}

// Encode returns the opaque, URL-safe form of the key.
func (k Key) Encode() string {
	if k.Incomplete() {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(string(k.Kind) + "/" + k.ID))
}

func (k Key) String() string {
	return string(k.Kind) + "/" + k.ID
}

// ParseKey decodes an opaque key produced by Encode.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, ErrMalformedKey
	}

	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Key{}, ErrMalformedKey
	}

	kind, id, ok := strings.Cut(string(raw), "/")
	if !ok || !validID(id) || !Kind(kind).Valid() {
		return Key{}, ErrMalformedKey
	}

	return Key{Kind: Kind(kind), ID: id}, nil
}

// validID accepts only IDs every backend can address: ASCII letters, digits and '-'.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}
