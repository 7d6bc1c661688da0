package values

import (
	"fmt"
)

// Status represents the outcome of a constraint evaluation or of a whole report.
type Status string

const (
	// StatusPass indicates the value satisfied the constraint
	StatusPass Status = "pass"
	// StatusFail indicates the data legitimately violates the constraint
	StatusFail Status = "fail"
	// StatusError indicates the model or context is malformed and the constraint could not be decided
	StatusError Status = "error"
)

// Precedence returns the numeric precedence of this status.
// Higher values indicate higher priority in aggregation.
//
// Precedence: Fail (2) > Error (1) > Pass (0)
func (s Status) Precedence() int {
	switch s {
	case StatusFail:
		return 2
	case StatusError:
		return 1
	case StatusPass:
		return 0
	default:
		return -1
	}
}

// IsFailure returns true if this status represents a failure or error
func (s Status) IsFailure() bool {
	return s == StatusFail || s == StatusError
}

// IsSuccess returns true if this status represents success
func (s Status) IsSuccess() bool {
	return s == StatusPass
}

// Validate returns an error if the status value is invalid
func (s Status) Validate() error {
	switch s {
	case StatusPass, StatusFail, StatusError:
		return nil
	default:
		return fmt.Errorf("invalid status: %s", s)
	}
}

// Worst returns the status with the highest precedence.
func Worst(statuses ...Status) Status {
	worst := StatusPass
	for _, s := range statuses {
		if s.Precedence() > worst.Precedence() {
			worst = s
		}
	}
	return worst
}
