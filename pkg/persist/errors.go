// Package persist implements durable key-value storage for page annotation sets
package persist

import "errors"

var (
	// ErrQuotaExceeded indicates the backend refused a write for lack of space
	ErrQuotaExceeded = errors.New("persist: storage quota exceeded")

	// ErrStoreClosed indicates an operation on a closed backend
	ErrStoreClosed = errors.New("persist: store closed")
)
