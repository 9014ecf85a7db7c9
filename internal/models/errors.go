package models

type ErrorResponse struct {
	Error string `json:"error"`
}

type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields"`
}
