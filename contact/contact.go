// Package contact validates contact form submissions and mails them to
// the site owner.
package contact

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrMissingFields is returned when name, email or message is empty.
	ErrMissingFields = errors.New("contact: required fields are missing")
	// ErrInvalidEmail is returned when the email address is malformed.
	ErrInvalidEmail = errors.New("contact: invalid email address")
	// ErrNotConfigured is returned when no mail credentials are set.
	ErrNotConfigured = errors.New("contact: email service is not configured")
)

var reEmail = regexp.MustCompile(`(?i)^\S+@\S+\.\S+$`)

// Submission is one contact form post. It is never stored.
type Submission struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone,omitempty" form:"phone"`
	Service string `json:"service,omitempty" form:"service"`
	Message string `json:"message" form:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Service = strings.TrimSpace(s.Service)
	s.Message = strings.TrimSpace(s.Message)
}

// Validate checks the required fields and the email syntax.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" ||
		strings.TrimSpace(s.Email) == "" ||
		strings.TrimSpace(s.Message) == "" {
		return ErrMissingFields
	}
	if !reEmail.MatchString(strings.TrimSpace(s.Email)) {
		return ErrInvalidEmail
	}
	return nil
}
