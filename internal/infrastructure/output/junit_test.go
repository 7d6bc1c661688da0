package output

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJUnitFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJUnitFormatter(&buf)
	require.NoError(t, formatter.Format(createTestRecord()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(xml.Header)))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))

	assert.Equal(t, "Aspect Model Validation", suites.Name)
	assert.Equal(t, 2, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)

	require.Len(t, suites.TestSuites, 1)
	suite := suites.TestSuites[0]
	assert.Equal(t, testModel, suite.Name)
	assert.Equal(t, "2026-03-01T12:00:00", suite.Timestamp)
	require.Len(t, suite.TestCases, 2)

	// Diagnostics keep declaration order
	errCase := suite.TestCases[0]
	assert.Equal(t, "position.altitude", errCase.Name)
	require.NotNil(t, errCase.Error)
	assert.Nil(t, errCase.Failure)
	assert.Equal(t, "unresolvable-unit", errCase.Error.Type)

	failCase := suite.TestCases[1]
	assert.Equal(t, "speed", failCase.Name)
	assert.Equal(t, "urn:samm:org.example.movement:1.0.0#speed", failCase.ClassName)
	require.NotNil(t, failCase.Failure)
	assert.Equal(t, "speed: value 412 is outside the range [0, 300)", failCase.Failure.Message)
	assert.Contains(t, failCase.Failure.Content, "Constraint: urn:samm:org.example.movement:1.0.0#SpeedRange")
	assert.Contains(t, failCase.Failure.Content, "Value: 412")
}

func TestJUnitFormatter_Passing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJUnitFormatter(&buf).Format(createPassingRecord()))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))

	assert.Equal(t, 1, suites.Tests)
	assert.Zero(t, suites.Failures)
	require.Len(t, suites.TestSuites[0].TestCases, 1)
	c := suites.TestSuites[0].TestCases[0]
	assert.Equal(t, "instance", c.Name)
	assert.Nil(t, c.Failure)
	assert.Nil(t, c.Error)
}
