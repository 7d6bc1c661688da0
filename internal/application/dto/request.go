// Package dto contains data transfer objects for application layer use cases.
package dto

// ValidateRequest encapsulates all inputs needed to validate one instance.
type ValidateRequest struct {
	Metadata     RequestMetadata
	ModelPath    string
	InstancePath string
	// AspectName picks the aspect when a model declares several.
	AspectName string
	Options    ValidateOptions
}

// ValidateOptions controls how the session evaluates properties.
type ValidateOptions struct {
	// Parallel enables parallel evaluation of top-level properties
	Parallel bool

	// MaxConcurrency limits parallel property evaluation
	MaxConcurrency int
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
}
