package models

// DateLayout is the storage and wire format of transaction dates.
const DateLayout = "2006-01-02"

// Transaction is a single dated movement of money on an account.
// Reference fields hold encoded keys.
type Transaction struct {
	meta        `json:"-" firestore:"-"`
	UserID      string  `json:"user" firestore:"user"`
	Date        string  `json:"date" firestore:"date"`
	Amount      int64   `json:"amount" firestore:"amount"`
	Payee       *string `json:"payeer,omitempty" firestore:"payeer,omitempty"`
	Account     string  `json:"account" firestore:"account"`
	Description *string `json:"description,omitempty" firestore:"description,omitempty"`
	Pair        *string `json:"pair,omitempty" firestore:"pair,omitempty"`
	Category    *string `json:"category,omitempty" firestore:"category,omitempty"`
}

// NewTransaction returns a transaction with an incomplete key.
func NewTransaction(userID string) *Transaction {
	t := &Transaction{UserID: userID}
	t.SetKey(NewIncompleteKey(KindTransaction))
	return t
}

func (t *Transaction) Owner() string {
	return t.UserID
}
