package dto

import (
	"strings"
	"time"
	"unicode"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// SignupForm is the account creation form
type SignupForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

// Validate checks the signup form; username uniqueness is checked by the service
func (f SignupForm) Validate() validation.Errors {
	f.Username = strings.TrimSpace(f.Username)
	errs := validation.Struct(f)

	if f.Password1 != "" && !errs.Has("password2") {
		if len([]rune(f.Password1)) < validation.PasswordMinLength {
			errs.Add("password2", "This password is too short. It must contain at least 8 characters.")
		}
		if isAllDigits(f.Password1) {
			errs.Add("password2", "This password is entirely numeric.")
		}
		if strings.EqualFold(f.Password1, f.Username) {
			errs.Add("password2", "The password is too similar to the username.")
		}
	}
	return errs
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// LoginForm is the login form
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// Validate checks that both credentials were supplied
func (f LoginForm) Validate() validation.Errors {
	f.Username = strings.TrimSpace(f.Username)
	return validation.Struct(f)
}

// AuthSession is the result of a successful signup or login
type AuthSession struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}
