package models

// Place is a payee location. No API operates on it yet.
type Place struct {
	meta    `json:"-" firestore:"-"`
	Name    string   `json:"name" firestore:"name"`
	Icon    string   `json:"icon,omitempty" firestore:"icon,omitempty"`
	Aliases []string `json:"aliases,omitempty" firestore:"aliases,omitempty"`
}

func (p *Place) Owner() string {
	return ""
}
