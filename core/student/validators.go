package student

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var (
	nameLenTag  = "namelen"
	nameMinLen  = 3
	nameMaxLen  = 20
	nameLenText = "The {0} must be between 3 and 20 characters"

	emailTag  = "email"
	emailText = "Invalid E-mail."

	integerTag   = "integer"
	integerText  = "{0} must be an integer."
	integerRegex = regexp.MustCompile(`^[-+]?(0|[1-9][0-9]*)$`)

	decimalTag   = "decimal"
	decimalText  = "{0} must be a whole number separated by periods."
	decimalRegex = regexp.MustCompile(`^[-+]?([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)
)

// InitValidators registers the student validations and their messages.
// It expects core.InitValidators to have run on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(nameLenTag, nameLenValidation)
	_ = validate.RegisterValidation(integerTag, integerValidation)
	_ = validate.RegisterValidation(decimalTag, decimalValidation)

	registerTranslation(validate, translator, nameLenTag, nameLenText, false, false)
	registerTranslation(validate, translator, emailTag, emailText, false, true)
	registerTranslation(validate, translator, integerTag, integerText, true, false)
	registerTranslation(validate, translator, decimalTag, decimalText, true, false)
}

// registerTranslation renders {0} as the field name, optionally capitalized.
func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, capitalize, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			field := fe.Field()
			if capitalize {
				field = title(field)
			}
			s, _ := t.T(tag, field)
			return s
		},
	)
}

func nameLenValidation(fl validator.FieldLevel) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
	return n >= nameMinLen && n <= nameMaxLen
}

// integerValidation also rejects values that overflow an int.
func integerValidation(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if !integerRegex.MatchString(v) {
		return false
	}
	_, err := strconv.Atoi(v)
	return err == nil
}

func decimalValidation(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if !decimalRegex.MatchString(v) {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}
