package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/services"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

func loadMovement(t *testing.T) (*metamodel.Graph, *metamodel.Entity) {
	t.Helper()
	graph, err := NewModelLoader().LoadModel(filepath.Join("testdata", "movement.yaml"))
	require.NoError(t, err)
	aspects := graph.Aspects()
	require.Len(t, aspects, 1)
	return graph, aspects[0]
}

func TestLoadModel_BuildsAspect(t *testing.T) {
	graph, aspect := loadMovement(t)

	assert.Equal(t, "urn:samm:org.example.movement:1.0.0#Movement", aspect.AspectModelURN().String())
	assert.Equal(t, metamodel.ModelClassAspect, aspect.ModelClass())
	assert.Equal(t, "2.1.0", aspect.MetaModelVersion().String())

	name, ok := aspect.PreferredName(values.MustNewLocale("de"))
	require.True(t, ok)
	assert.Equal(t, "Bewegung", name)
	assert.Equal(t, []string{"https://example.org/movement"}, aspect.See())

	var names []string
	for _, p := range aspect.Properties() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"isMoving", "position", "speed", "speedLimitWarning", "vehicleId", "waypoints"}, names)

	counts := graph.Counts()
	assert.Equal(t, 1, counts[metamodel.ModelClassAspect])
	assert.Equal(t, 1, counts[metamodel.ModelClassEntity])
	assert.Equal(t, 2, counts[metamodel.ModelClassCharacteristic])
	assert.Equal(t, 9, counts[metamodel.ModelClassProperty])
	assert.Equal(t, 5, counts[metamodel.ModelClassConstraint])
}

func TestLoadModel_PicksPropertyVariants(t *testing.T) {
	_, aspect := loadMovement(t)

	tests := []struct {
		name     string
		variant  values.PropertyType
		dataType values.DataType
	}{
		{"isMoving", values.PropertyTypePlain, values.DataTypeBoolean},
		{"position", values.PropertyTypePlain, values.DataTypeEntity},
		{"speed", values.PropertyTypeConstraintUnit, values.DataTypeFloat},
		{"speedLimitWarning", values.PropertyTypePlain, values.DataTypeString},
		{"vehicle_id", values.PropertyTypeConstraint, values.DataTypeString},
		{"waypoints", values.PropertyTypeConstraintContainer, values.DataTypeEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := aspect.Property(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.variant, p.PropertyType())
			assert.Equal(t, tt.dataType, p.DataType())
			assert.True(t, p.ContainingType().Equals(aspect.AspectModelURN()))
		})
	}

	speed, _ := aspect.Property("speed")
	m, ok := speed.(metamodel.Measured)
	require.True(t, ok)
	assert.Equal(t, "urn:samm:org.eclipse.esmf.samm:unit:2.1.0#kilometrePerHour", m.Unit().String())

	waypoints, _ := aspect.Property("waypoints")
	c, ok := waypoints.(metamodel.Contained)
	require.True(t, ok)
	assert.True(t, c.IsOrdered())
	assert.NotNil(t, c.ElementEntity())
}

func TestLoadModel_InnerConstraintTargetsOuter(t *testing.T) {
	doc := `
namespace: "urn:samm:org.example.test:1.0.0"
aspect:
  name: Sensor
  properties:
    - name: temperature
      dataType: double
      unit: degreeCelsius
      constraints:
        - name: TemperatureUnit
          kind: unit
          unit: degreeCelsius
          inner:
            kind: range
            min: { value: -40 }
            max: { value: 125 }
`
	graph, err := NewModelLoader().LoadModelFromReader(strings.NewReader(doc))
	require.NoError(t, err)

	p, ok := graph.Aspects()[0].Property("temperature")
	require.True(t, ok)
	constraints := p.(metamodel.Constrained).Constraints()
	require.Len(t, constraints, 1)

	outer := constraints[0]
	inner := outer.Inner()
	require.NotNil(t, inner)
	assert.Equal(t, metamodel.TargetProperty, outer.Target().Kind)
	assert.Equal(t, metamodel.TargetConstraint, inner.Target().Kind)
	assert.True(t, inner.ContainingType().Equals(outer.AspectModelURN()))
	assert.Equal(t, "TemperatureUnit-inner", inner.Name())
	assert.Equal(t, metamodel.ConstraintRange, inner.PropertyType())
}

func TestLoadModel_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing aspect",
			doc:  `namespace: "urn:samm:org.example.test:1.0.0"`,
			want: "model validation failed",
		},
		{
			name: "bad namespace",
			doc: `
namespace: "org.example.test"
aspect: { name: Test }
`,
			want: "/namespace",
		},
		{
			name: "unknown constraint kind",
			doc: `
namespace: "urn:samm:org.example.test:1.0.0"
aspect:
  name: Test
  properties:
    - name: a
      dataType: string
      constraints:
        - kind: checksum
`,
			want: "model validation failed",
		},
		{
			name: "unknown field",
			doc: `
namespace: "urn:samm:org.example.test:1.0.0"
aspect: { name: Test, colour: blue }
`,
			want: "model validation failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModelLoader().LoadModelFromReader(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadModel_InvariantViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		rule string
	}{
		{
			name: "duplicate property name",
			doc: `
namespace: "urn:samm:org.example.test:1.0.0"
aspect:
  name: Test
  properties:
    - { name: a, dataType: string }
    - { name: b, dataType: string, payloadName: a }
`,
			rule: metamodel.RuleDuplicateName,
		},
		{
			name: "duplicate URN across elements",
			doc: `
namespace: "urn:samm:org.example.test:1.0.0"
entities:
  - name: Part
    properties:
      - { name: id, dataType: string }
aspect:
  name: Test
  properties:
    - { name: id, dataType: string }
    - { name: part, entity: Part }
`,
			rule: metamodel.RuleDuplicateURN,
		},
		{
			name: "inheritance cycle",
			doc: `
namespace: "urn:samm:org.example.test:1.0.0"
entities:
  - { name: A, extends: B }
  - { name: B, extends: A }
aspect:
  name: Test
`,
			rule: metamodel.RuleInheritanceCycle,
		},
		{
			name: "unknown data type",
			doc: `
namespace: "urn:samm:org.example.test:1.0.0"
aspect:
  name: Test
  properties:
    - { name: a, dataType: complex }
`,
			rule: metamodel.RuleInvalidDataType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModelLoader().LoadModelFromReader(strings.NewReader(tt.doc))
			require.Error(t, err)
			var inv *metamodel.InvariantError
			require.True(t, errors.As(err, &inv), "want invariant error, got %v", err)
			assert.Equal(t, tt.rule, inv.Rule)
		})
	}
}

func TestLoadModel_PathErrors(t *testing.T) {
	_, err := NewModelLoader().LoadModel(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open model")
}

func TestLoadedModel_ValidatesInstances(t *testing.T) {
	_, aspect := loadMovement(t)
	units := services.StaticUnits{"kilometrePerHour": "km/h"}
	session := services.NewSession(nil, units)
	loader := NewInstanceLoader()

	t.Run("valid instance passes", func(t *testing.T) {
		instance, err := loader.LoadInstance(filepath.Join("testdata", "movement.json"))
		require.NoError(t, err)

		report := session.Validate(aspect, instance)
		assert.True(t, report.Passed(), "unexpected diagnostics: %+v", report.Diagnostics)
	})

	t.Run("invalid instance reports every violation in declaration order", func(t *testing.T) {
		instance, err := loader.LoadInstance(filepath.Join("testdata", "movement_invalid.yaml"))
		require.NoError(t, err)

		report := session.Validate(aspect, instance)
		assert.Equal(t, values.StatusFail, report.Status)

		var codes []validation.Code
		var paths []string
		for _, d := range report.Diagnostics {
			codes = append(codes, d.Code)
			paths = append(paths, d.Path)
		}
		assert.Equal(t, []validation.Code{
			validation.CodeRangeViolation,
			validation.CodeRangeViolation,
			validation.CodeEnumerationViolation,
			validation.CodePatternMismatch,
			validation.CodeLengthViolation,
		}, codes)
		assert.Equal(t, []string{"position.latitude", "speed", "speedLimitWarning", "vehicle_id", "waypoints"}, paths)
	})
}
