package core

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// Messages returns the human readable messages carried by err, in field order.
func (err ValidationError) Messages() []string {
	if len(err.Fields) == 0 {
		if msg := err.Error(); msg != "" {
			return []string{msg}
		}
		return nil
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, fld := range err.Fields {
		msgs = append(msgs, fld.Error)
	}
	return msgs
}

// ErrorMessages flattens validation errors into translated messages.
// Any other error yields its own message.
func ErrorMessages(err error, translator ut.Translator) []string {
	if err == nil {
		return nil
	}
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		msgs := make([]string, 0, len(origErr))
		for _, fe := range origErr {
			msgs = append(msgs, fe.Translate(translator))
		}
		return msgs
	case *ValidationError:
		return origErr.Messages()
	default:
		return []string{err.Error()}
	}
}
