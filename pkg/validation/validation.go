package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	phoneRegex  = regexp.MustCompile(`^(?:\+972|0)(?:[2-9]|5[0-9])[-\s]?\d{3}[-\s]?\d{4}$`)
	specialRune = "!@#$%^&*-_"
)

// ValidatePhone checks the Israeli phone format the directory requires.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(phone))
}

// ValidatePassword requires 8+ characters with an upper-case letter, a
// lower-case letter, a special character and at least minDigits digits.
func ValidatePassword(password string, minDigits int) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	var upper, lower, special bool
	digits := 0
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digits++
		case strings.ContainsRune(specialRune, r):
			special = true
		}
	}
	return upper && lower && special && digits >= minDigits
}

// ValidateID checks a backend document id (24-char hex ObjectID).
func ValidateID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// Errors maps a field path (e.g. "address.city") to a user-facing message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = e[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("ilphone", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			n = 4
		}
		return ValidatePassword(fl.Field().String(), n)
	})
	v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return ValidateID(fl.Field().String())
	})
	return v
}

// Struct validates a form struct tagged with `validate:"..."`. It returns
// Errors (one message per field) or nil.
func Struct(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		if _, seen := out[field]; !seen {
			out[field] = message(field, fe)
		}
	}
	return out
}

// fieldPath drops the struct name from a namespace like "CardForm.address.city".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(field string, fe validator.FieldError) string {
	label := field
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		label = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return label + " is a required field"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "email":
		return label + " must be a valid email"
	case "url":
		return label + " must be a valid URL"
	case "number", "numeric":
		return label + " must be a number"
	case "ilphone":
		return "phone number must match the Israeli format"
	case "password":
		return fmt.Sprintf("password must contain 8 characters, one uppercase, one lowercase, %s numbers, and one special case character", fe.Param())
	case "objectid":
		return label + " is not a valid id"
	}
	return label + " is invalid"
}
