package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewValidationError("instance", "failed to load instance", cause)

	assert.Equal(t, "validation failed: instance: failed to load instance (1 issues)", err.Error())
	assert.Equal(t, []string{"unexpected EOF"}, err.Details)
	assert.ErrorIs(t, err, cause)

	plain := NewValidationError("aspect", "no aspect named Foo", nil)
	assert.Equal(t, "validation failed: aspect: no aspect named Foo", plain.Error())
}

func TestConstructionError(t *testing.T) {
	cause := errors.New("duplicate")
	err := NewConstructionError("urn:samm:org.example:1.0.0#A", "duplicate-urn", cause)

	assert.Contains(t, err.Error(), "urn:samm:org.example:1.0.0#A")
	assert.Contains(t, err.Error(), "duplicate-urn")

	var target *ConstructionError
	assert.True(t, errors.As(error(err), &target))
	assert.ErrorIs(t, err, cause)
}

func TestConfigurationError(t *testing.T) {
	cause := errors.New("bad timeout")
	err := NewConfigurationError("system", "invalid config", cause)
	assert.Equal(t, "configuration error (system): invalid config: bad timeout", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "configuration error (units): missing", NewConfigurationError("units", "missing", nil).Error())
}
