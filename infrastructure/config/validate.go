package config

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidationError reports one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRequired fails when value is empty.
func ValidateRequired(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidatePort fails unless port is within 1..65535.
func ValidatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

// ValidateURL fails unless raw is an absolute http(s) URL.
func ValidateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{Field: field, Message: "must be an absolute http(s) URL"}
	}
	return nil
}

// ValidateOneOf fails unless value is one of allowed.
func ValidateOneOf(field, value string, allowed ...string) error {
	if !slices.Contains(allowed, value) {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be one of %v", allowed)}
	}
	return nil
}
