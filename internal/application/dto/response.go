package dto

import (
	"time"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
)

// ValidateResponse contains the result of validating an instance.
type ValidateResponse struct {
	// Record is the stored report with its ID and creation time
	Record *validation.Record

	// Fingerprint is a stable hash of the report content
	Fingerprint string

	// Metadata contains response metadata
	Metadata ResponseMetadata
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// RequestID from the original request
	RequestID string

	// ProcessedAt is when the request was processed
	ProcessedAt time.Time

	// Duration is how long the request took
	Duration time.Duration
}
