package models

import "fmt"

// Entity is a record addressable by a Key.
// Implementations are pointers to structs whose json and firestore tags agree.
type Entity interface {
	Key() Key
	SetKey(Key)
	// Owner returns the identity the record belongs to; empty for ownerless kinds.
	Owner() string
}

// NewEntity returns an empty entity of the given kind, ready to be loaded.
func NewEntity(kind Kind) (Entity, error) {
	switch kind {
	case KindAccount:
		return &Account{}, nil
	case KindTransaction:
		return &Transaction{}, nil
	case KindCategory:
		return &Category{}, nil
	case KindSubcategory:
		return &Subcategory{}, nil
	case KindPlace:
		return &Place{}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

// meta carries the key of an entity. It is never persisted as a field.
type meta struct {
	key Key
}

func (m *meta) Key() Key {
	return m.key
}

func (m *meta) SetKey(k Key) {
	m.key = k
}
