package service

import "fmt"

// APIError is a caller-visible failure. Handlers map it to a JSON body of
// {error, error_description} with the carried HTTP status.
type APIError struct {
	Code        string
	Description string
	Status      int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func newAPIError(code, description string, status int) *APIError {
	return &APIError{Code: code, Description: description, Status: status}
}
