package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MinNameLength     = 2
	MaxNameLength     = 50
	phoneDigits       = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]+$`)

// ValidationCode identifies a single field rule violation. Codes are errors
// themselves so callers can match them with errors.Is through joined results.
type ValidationCode string

const (
	CodeRequired         ValidationCode = "required"
	CodeTooShort         ValidationCode = "too_short"
	CodeTooLong          ValidationCode = "too_long"
	CodeInvalidFormat    ValidationCode = "invalid_format"
	CodeMissingLowercase ValidationCode = "missing_lowercase"
	CodeMissingUppercase ValidationCode = "missing_uppercase"
	CodeMissingDigit     ValidationCode = "missing_digit"
	CodeMismatch         ValidationCode = "mismatch"
)

func (c ValidationCode) Error() string {
	return string(c)
}

type FieldError struct {
	Field string
	Code  ValidationCode
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, fieldMessage(e.Field, e.Code))
}

func (e *FieldError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	code, ok := target.(ValidationCode)
	return ok && code == e.Code
}

func fieldMessage(field string, code ValidationCode) string {
	switch code {
	case CodeRequired:
		return "is required"
	case CodeTooShort:
		if field == "password" {
			return fmt.Sprintf("must be at least %d characters", MinPasswordLength)
		}
		return "is too short"
	case CodeTooLong:
		return "is too long"
	case CodeInvalidFormat:
		return "has an invalid format"
	case CodeMissingLowercase:
		return "must contain at least one lowercase letter"
	case CodeMissingUppercase:
		return "must contain at least one uppercase letter"
	case CodeMissingDigit:
		return "must contain at least one number"
	case CodeMismatch:
		return "does not match"
	default:
		return string(code)
	}
}

func fieldErr(field string, code ValidationCode) error {
	return &FieldError{Field: field, Code: code}
}

// PasswordPolicy selects which password rules apply. Login only checks
// length; signup and password change also require character classes.
type PasswordPolicy int

const (
	PolicyLogin PasswordPolicy = iota
	PolicySignup
)

func ValidateEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

func ValidatePassword(s string, policy PasswordPolicy) error {
	var errs []error
	if s == "" {
		errs = append(errs, fieldErr("password", CodeRequired))
	}
	if utf8.RuneCountInString(s) < MinPasswordLength {
		errs = append(errs, fieldErr("password", CodeTooShort))
	}

	if policy == PolicySignup {
		classes := classify(s)
		if !classes.lower {
			errs = append(errs, fieldErr("password", CodeMissingLowercase))
		}
		if !classes.upper {
			errs = append(errs, fieldErr("password", CodeMissingUppercase))
		}
		if !classes.digit {
			errs = append(errs, fieldErr("password", CodeMissingDigit))
		}
	}

	return errors.Join(errs...)
}

func ConfirmMatches(password, confirmation string) bool {
	return password == confirmation
}

func ValidateDisplayName(field, name string) error {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		return fieldErr(field, CodeRequired)
	case n < MinNameLength:
		return fieldErr(field, CodeTooShort)
	case n > MaxNameLength:
		return fieldErr(field, CodeTooLong)
	default:
		return nil
	}
}

func ValidateChildProfile(child ChildProfile) error {
	var errs []error
	if err := ValidateDisplayName("name", child.Name); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(child.Grade) == "" {
		errs = append(errs, fieldErr("grade", CodeRequired))
	}
	if strings.TrimSpace(child.School) == "" {
		errs = append(errs, fieldErr("school", CodeRequired))
	}

	return errors.Join(errs...)
}

func validateEmailField(email string) error {
	if strings.TrimSpace(email) == "" {
		return fieldErr("email", CodeRequired)
	}
	if !ValidateEmail(email) {
		return fieldErr("email", CodeInvalidFormat)
	}
	return nil
}

// ValidatePhone accepts an empty value; otherwise exactly ten digits.
func ValidatePhone(phone string) error {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) != phoneDigits {
		return fieldErr("phone", CodeInvalidFormat)
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return fieldErr("phone", CodeInvalidFormat)
		}
	}
	return nil
}

func ValidateLogin(email, password string) error {
	return errors.Join(validateEmailField(email), ValidatePassword(password, PolicyLogin))
}

func ValidateSignup(email, password, name string) error {
	return errors.Join(
		ValidateDisplayName("name", name),
		validateEmailField(email),
		ValidatePassword(password, PolicySignup),
	)
}

type ProfileUpdate struct {
	Name  string
	Email string
	Phone string
}

func ValidateProfileUpdate(update ProfileUpdate) error {
	return errors.Join(
		ValidateDisplayName("name", update.Name),
		validateEmailField(update.Email),
		ValidatePhone(update.Phone),
	)
}

func ValidatePasswordChange(current, next, confirmation string) error {
	var errs []error
	if current == "" {
		errs = append(errs, fieldErr("current_password", CodeRequired))
	}
	if err := ValidatePassword(next, PolicySignup); err != nil {
		errs = append(errs, err)
	}
	if !ConfirmMatches(next, confirmation) {
		errs = append(errs, fieldErr("confirm_password", CodeMismatch))
	}

	return errors.Join(errs...)
}

type charClasses struct {
	lower, upper, digit, other bool
}

func classify(s string) charClasses {
	var c charClasses
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			c.lower = true
		case r >= 'A' && r <= 'Z':
			c.upper = true
		case r >= '0' && r <= '9':
			c.digit = true
		default:
			c.other = true
		}
	}
	return c
}
