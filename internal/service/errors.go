package service

import "errors"

var (
	ErrNotFound      = errors.New("purchase not found")
	ErrUnauthorized  = errors.New("session does not match purchase")
	ErrPaymentFailed = errors.New("payment creation failed")
)

// MissingSelectionError, checkout formunda eksik bırakılan alanları taşır.
// Error() kullanıcıya gösterilen birleşik mesajın kendisidir; frontend
// <br/> ayraçlarıyla satır satır render eder.
type MissingSelectionError struct {
	Language      bool
	Country       bool
	PaymentMethod bool
}

func (e *MissingSelectionError) Error() string {
	msg := ""
	if e.Language {
		msg += "You did not select a language.<br/>"
	}
	if e.Country {
		msg += "You did not select a country.<br/>"
	}
	if e.PaymentMethod {
		msg += "You did not select a payment method."
	}
	return msg
}

func (e *MissingSelectionError) Any() bool {
	return e.Language || e.Country || e.PaymentMethod
}
