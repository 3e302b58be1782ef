package transaction

import (
	"errors"
	"fmt"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrMalformed           = errors.New("malformed transaction")
)

// CreateParams carries the fields accepted when recording a transaction.
// References are opaque keys; nil pointers mean the field was not supplied.
type CreateParams struct {
	Date        string
	Amount      *int64
	Account     string
	Payee       *string
	Description *string
	Pair        *string
	Category    *string
}

func (p *CreateParams) Validate() error {
	if p.Date == "" {
		return fmt.Errorf("%w: date is required", ErrMalformed)
	}
	if p.Amount == nil {
		return fmt.Errorf("%w: amount is required", ErrMalformed)
	}
	if p.Account == "" {
		return fmt.Errorf("%w: account is required", ErrMalformed)
	}
	return nil
}
