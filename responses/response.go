package responses

// Envelope is the uniform response body returned by every endpoint
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK wraps a successful payload
func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKMessage wraps a successful payload with a human-readable message
func OKMessage(message string, data interface{}) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// Fail wraps an error message
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
