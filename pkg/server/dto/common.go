package dto

// Result represents a generic API result
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Category string `json:"category,omitempty"`
	Code     int    `json:"code,omitempty"`
}
