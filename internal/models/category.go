package models

type Category struct {
	meta   `json:"-" firestore:"-"`
	UserID string `json:"user" firestore:"user"`
	Name   string `json:"name" firestore:"name"`
}

func NewCategory(userID, name string) *Category {
	c := &Category{UserID: userID, Name: name}
	c.SetKey(NewIncompleteKey(KindCategory))
	return c
}

func (c *Category) Owner() string {
	return c.UserID
}

// Subcategory belongs to a parent Category; Parent holds its encoded key.
type Subcategory struct {
	meta   `json:"-" firestore:"-"`
	UserID string `json:"user" firestore:"user"`
	Parent string `json:"category" firestore:"category"`
	Name   string `json:"name" firestore:"name"`
}

func NewSubcategory(userID string, parent Key, name string) *Subcategory {
	s := &Subcategory{UserID: userID, Parent: parent.Encode(), Name: name}
	s.SetKey(NewIncompleteKey(KindSubcategory))
	return s
}

func (s *Subcategory) Owner() string {
	return s.UserID
}
