package service

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxPersonName     = 150
)

var (
	ErrUsernameRequired       = errors.New("username is required")
	ErrUsernameTooLong        = errors.New("username is too long")
	ErrInvalidUsernamePattern = errors.New("username may contain only letters, digits and @/./+/-/_")
	ErrUsernameReserved       = errors.New("username is reserved")
	ErrUsernameTaken          = errors.New("username is already taken")
	ErrEmailRequired          = errors.New("email is required")
	ErrEmailTooLong           = errors.New("email is too long")
	ErrInvalidEmail           = errors.New("email is invalid")
	ErrEmailTaken             = errors.New("email is already registered")
	ErrPersonNameRequired     = errors.New("this field is required")
	ErrPersonNameTooLong      = errors.New("this field is too long")
	ErrPasswordRequired       = errors.New("password is required")
	ErrPasswordTooLong        = errors.New("password must be at most 72 bytes")
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// "me" would shadow the /users/me route.
var reservedUsernames = map[string]bool{"me": true}

// ValidUsername reports whether username fits the allowed pattern and length.
func ValidUsername(username string) bool {
	return checkUsername(username) == nil
}

func checkUsername(username string) error {
	switch {
	case username == "":
		return ErrUsernameRequired
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		return ErrUsernameTooLong
	case !usernamePattern.MatchString(username):
		return ErrInvalidUsernamePattern
	case reservedUsernames[strings.ToLower(username)]:
		return ErrUsernameReserved
	}
	return nil
}

func checkEmail(email string) error {
	switch {
	case email == "":
		return ErrEmailRequired
	case len(email) > MaxEmailLength:
		return ErrEmailTooLong
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func checkPersonName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return ErrPersonNameRequired
	case utf8.RuneCountInString(name) > MaxPersonName:
		return ErrPersonNameTooLong
	}
	return nil
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// ValidateRegistration checks the sign-up fields. usernameTaken and
// emailTaken are looked up by the caller.
func ValidateRegistration(input RegisterInput, usernameTaken, emailTaken bool) error {
	var errs ValidationErrors
	add := func(field string, err error) {
		if err != nil {
			errs = append(errs, &FieldError{Field: field, Err: err})
		}
	}

	usernameErr := checkUsername(input.Username)
	if usernameErr == nil && usernameTaken {
		usernameErr = ErrUsernameTaken
	}
	add("username", usernameErr)

	emailErr := checkEmail(input.Email)
	if emailErr == nil && emailTaken {
		emailErr = ErrEmailTaken
	}
	add("email", emailErr)

	add("first_name", checkPersonName(input.FirstName))
	add("last_name", checkPersonName(input.LastName))
	add("password", checkPassword(input.Password))
	return errs.orNil()
}

// bcrypt rejects inputs longer than 72 bytes.
func checkPassword(password string) error {
	switch {
	case password == "":
		return ErrPasswordRequired
	case len(password) > 72:
		return ErrPasswordTooLong
	}
	return nil
}
