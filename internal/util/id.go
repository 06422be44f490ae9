package util

import "github.com/google/uuid"

// NewRequestID returns a unique ID for outbound request correlation.
func NewRequestID() string {
	return uuid.NewString()
}
