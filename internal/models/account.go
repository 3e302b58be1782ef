package models

// Account is a named money container owned by one user.
type Account struct {
	meta   `json:"-" firestore:"-"`
	UserID string `json:"user" firestore:"user"`
	Name   string `json:"name" firestore:"name"`
}

// NewAccount returns an account with an incomplete key.
func NewAccount(userID, name string) *Account {
	a := &Account{UserID: userID, Name: name}
	a.SetKey(NewIncompleteKey(KindAccount))
	return a
}

func (a *Account) Owner() string {
	return a.UserID
}

// Stored field names used in queries.
const (
	FieldUser    = "user"
	FieldName    = "name"
	FieldAccount = "account"
)
