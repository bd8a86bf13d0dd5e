package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadySubmitted = errors.New("order already submitted; dismiss the confirmation first")
	ErrUnknownField     = errors.New("unknown checkout field")
)

const MsgEmptyCart = "Votre panier est vide."

// ValidationError is shown inline next to the form. Field is empty for cart-level problems.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
