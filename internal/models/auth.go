package models

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	letterInPass = regexp.MustCompile(`[A-Za-z]`)
	digitInPass  = regexp.MustCompile(`[0-9]`)
)

// SignupRequest carries the sign-up form fields
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks the sign-up form rules
func (req *SignupRequest) Validate() error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(req.Name) < 2 || !namePattern.MatchString(req.Name) {
		return fmt.Errorf("name must be at least 2 characters of letters and spaces")
	}

	if req.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(req.Email) {
		return fmt.Errorf("email address is not valid")
	}

	if req.Password == "" {
		return fmt.Errorf("password is required")
	}
	if len(req.Password) < 6 || !letterInPass.MatchString(req.Password) || !digitInPass.MatchString(req.Password) {
		return fmt.Errorf("password must be at least 6 characters with a letter and a number")
	}

	if req.ConfirmPassword == "" {
		return fmt.Errorf("password confirmation is required")
	}
	if req.Password != req.ConfirmPassword {
		return fmt.Errorf("passwords do not match")
	}

	return nil
}

// LoginRequest carries the login form fields. Any well-formed credentials
// are accepted; there is no credential check behind this.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks only the shape of the login form
func (req *LoginRequest) Validate() error {
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(req.Email) {
		return fmt.Errorf("email address is not valid")
	}
	if req.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
