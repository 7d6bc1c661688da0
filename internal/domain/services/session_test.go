package services

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

type graphHost = map[string]any

var kmh = values.MustParseAspectModelURN("urn:samm:org.eclipse.esmf.samm:unit:2.1.0#kilometrePerHour")

func spec(name, owner string, dt values.DataType) metamodel.PropertySpec {
	return metamodel.PropertySpec{
		Meta:           metamodel.MustNewMetaClass(metamodel.ModelClassProperty, testNS+name),
		ContainingType: testURN(owner),
		DataType:       dt,
	}
}

// movementAspect builds:
//
//	Movement
//	  isMoving  boolean
//	  speed     float in km/h, [0, 300]
//	  position  SpatialPosition{latitude [-90, 90], longitude [-180, 180]}
//	  tags      list of string, 1..3 unique, each ^[a-z]+$
//	  status    enumeration moving|stopped
//	  comment   optional string
func movementAspect(t *testing.T) *metamodel.Entity {
	t.Helper()

	isMoving, err := metamodel.NewProperty[graphHost, any](spec("isMoving", "Movement", values.DataTypeBoolean), nil)
	require.NoError(t, err)

	speedRange := newConstraint(t, "SpeedRange", metamodel.OnProperty(testURN("speed")), metamodel.RangeRule{
		Min: &metamodel.Bound{Value: 0}, Max: &metamodel.Bound{Value: 300},
	}, nil)
	speed, err := metamodel.NewConstraintUnitProperty[graphHost, any](spec("speed", "Movement", values.DataTypeFloat),
		kmh, []*metamodel.Constraint{speedRange}, nil)
	require.NoError(t, err)

	latRange := newConstraint(t, "LatitudeRange", metamodel.OnProperty(testURN("latitude")), metamodel.RangeRule{
		Min: &metamodel.Bound{Value: -90}, Max: &metamodel.Bound{Value: 90},
	}, nil)
	latitude, err := metamodel.NewConstraintProperty[graphHost, any](spec("latitude", "SpatialPosition", values.DataTypeDouble),
		[]*metamodel.Constraint{latRange}, nil)
	require.NoError(t, err)
	lonRange := newConstraint(t, "LongitudeRange", metamodel.OnProperty(testURN("longitude")), metamodel.RangeRule{
		Min: &metamodel.Bound{Value: -180}, Max: &metamodel.Bound{Value: 180},
	}, nil)
	longitude, err := metamodel.NewConstraintProperty[graphHost, any](spec("longitude", "SpatialPosition", values.DataTypeDouble),
		[]*metamodel.Constraint{lonRange}, nil)
	require.NoError(t, err)
	spatial, err := metamodel.NewEntity(metamodel.MustNewMetaClass(metamodel.ModelClassEntity, testNS+"SpatialPosition"), nil,
		latitude, longitude)
	require.NoError(t, err)

	positionSpec := spec("position", "Movement", values.DataTypeEntity)
	positionSpec.Entity = spatial
	position, err := metamodel.NewProperty[graphHost, any](positionSpec, nil)
	require.NoError(t, err)

	tagShape := newConstraint(t, "TagShape", metamodel.OnProperty(testURN("tags")), metamodel.LengthRule{
		Min: u64(1), Max: u64(3), Unique: true,
	}, nil)
	tagPattern := newConstraint(t, "TagPattern", metamodel.OnProperty(testURN("tags")),
		metamodel.PatternRule{Pattern: "^[a-z]+$"}, nil)
	tags, err := metamodel.NewConstraintContainerProperty[graphHost, any, any](spec("tags", "Movement", values.DataTypeString),
		metamodel.ContainerSpec{ElementType: values.DataTypeString, Ordered: true},
		[]*metamodel.Constraint{tagShape, tagPattern}, nil)
	require.NoError(t, err)

	states, err := metamodel.NewCharacteristic(metamodel.MustNewMetaClass(metamodel.ModelClassCharacteristic, testNS+"MovementState"),
		metamodel.CharacteristicState, values.DataTypeString, "moving", "stopped")
	require.NoError(t, err)
	statusSpec := spec("status", "Movement", values.DataTypeString)
	statusSpec.Characteristic = states
	status, err := metamodel.NewProperty[graphHost, any](statusSpec, nil)
	require.NoError(t, err)

	commentSpec := spec("comment", "Movement", values.DataTypeString)
	commentSpec.Optional = true
	comment, err := metamodel.NewProperty[graphHost, any](commentSpec, nil)
	require.NoError(t, err)

	aspect, err := metamodel.NewAspect(metamodel.MustNewMetaClass(metamodel.ModelClassAspect, testNS+"Movement"),
		isMoving, speed, position, tags, status, comment)
	require.NoError(t, err)
	return aspect
}

func validInstance() graphHost {
	return graphHost{
		"isMoving": true,
		"speed":    42.5,
		"position": map[string]any{"latitude": 48.1, "longitude": 11.6},
		"tags":     []any{"fleet", "north"},
		"status":   "moving",
	}
}

func units() StaticUnits {
	return StaticUnits{"kilometrePerHour": "km/h"}
}

func codes(r *validation.Report) []validation.Code {
	out := make([]validation.Code, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func TestSession_ValidInstancePasses(t *testing.T) {
	s := NewSession(NewEvaluator(), units())
	report := s.Validate(movementAspect(t), validInstance())

	assert.True(t, report.Passed(), "diagnostics: %v", report.Diagnostics)
	assert.Empty(t, report.Diagnostics)
	assert.Equal(t, testNS+"Movement", report.ModelURN)
	// six top-level + two nested properties
	assert.Equal(t, 8, report.Summary.Properties)
	assert.Zero(t, report.Summary.Failed)
}

func TestSession_ReportsEveryViolationInDeclarationOrder(t *testing.T) {
	instance := graphHost{
		"isMoving": "yes",
		"speed":    301,
		"position": map[string]any{"latitude": 91, "longitude": -181},
		"tags":     []any{"Fleet", "north", "north", "x"},
		"status":   "parked",
	}

	report := NewSession(NewEvaluator(), units()).Validate(movementAspect(t), instance)

	assert.Equal(t, values.StatusFail, report.Status)
	assert.Equal(t, []validation.Code{
		validation.CodeTypeMismatch,         // isMoving
		validation.CodeRangeViolation,       // speed
		validation.CodeRangeViolation,       // position.latitude
		validation.CodeRangeViolation,       // position.longitude
		validation.CodeLengthViolation,      // tags shape
		validation.CodePatternMismatch,      // tags[0]
		validation.CodeEnumerationViolation, // status
	}, codes(report))

	paths := make([]string, 0, len(report.Diagnostics))
	for _, d := range report.Diagnostics {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{"isMoving", "speed", "position.latitude", "position.longitude", "tags", "tags[0]", "status"}, paths)
	assert.Len(t, report.Errors(), 1)
}

func TestSession_RequiredAndOptional(t *testing.T) {
	instance := validInstance()
	delete(instance, "speed")
	instance["comment"] = nil

	report := NewSession(NewEvaluator(), units()).Validate(movementAspect(t), instance)

	require.Len(t, report.Diagnostics, 1)
	d := report.Diagnostics[0]
	assert.Equal(t, validation.CodeRequiredPropertyMissing, d.Code)
	assert.Equal(t, values.StatusFail, d.Status)
	assert.Equal(t, testNS+"speed", d.PropertyURN)
}

func TestSession_UnresolvableUnitIsErrorAndFailOpen(t *testing.T) {
	instance := validInstance()
	instance["status"] = "parked"

	report := NewSession(NewEvaluator(), StaticUnits{}).Validate(movementAspect(t), instance)

	require.Len(t, report.Diagnostics, 2)
	assert.Equal(t, validation.CodeUnresolvableUnit, report.Diagnostics[0].Code)
	assert.Equal(t, values.StatusError, report.Diagnostics[0].Status)
	assert.Equal(t, validation.CodeEnumerationViolation, report.Diagnostics[1].Code)
	assert.Equal(t, values.StatusFail, report.Status)
}

func TestSession_UniqueCollection(t *testing.T) {
	setSpec := spec("codes", "Batch", values.DataTypeString)
	codesProp, err := metamodel.NewContainerProperty[graphHost, any, any](setSpec,
		metamodel.ContainerSpec{ElementType: values.DataTypeString, Unique: true}, nil)
	require.NoError(t, err)
	batch, err := metamodel.NewAspect(metamodel.MustNewMetaClass(metamodel.ModelClassAspect, testNS+"Batch"), codesProp)
	require.NoError(t, err)

	report := NewSession(nil, nil).Validate(batch, graphHost{"codes": []any{"a", "b", "a"}})
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, validation.CodeDuplicateElement, report.Diagnostics[0].Code)
	assert.Equal(t, "codes[2]", report.Diagnostics[0].Path)

	report = NewSession(nil, nil).Validate(batch, graphHost{"codes": "abc"})
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, validation.CodeTypeMismatch, report.Diagnostics[0].Code)
}

func TestSession_SetWithUniqueLengthRuleReportsDuplicateOnce(t *testing.T) {
	shape := newConstraint(t, "CodeShape", metamodel.OnProperty(testURN("codes")), metamodel.LengthRule{
		Max: u64(5), Unique: true,
	}, nil)
	codesProp, err := metamodel.NewConstraintContainerProperty[graphHost, any, any](spec("codes", "Batch", values.DataTypeString),
		metamodel.ContainerSpec{ElementType: values.DataTypeString, Unique: true},
		[]*metamodel.Constraint{shape}, nil)
	require.NoError(t, err)
	batch, err := metamodel.NewAspect(metamodel.MustNewMetaClass(metamodel.ModelClassAspect, testNS+"Batch"), codesProp)
	require.NoError(t, err)

	report := NewSession(nil, nil).Validate(batch, graphHost{"codes": []any{"a", "b", "a"}})
	assert.Equal(t, []validation.Code{validation.CodeDuplicateElement}, codes(report))

	report = NewSession(nil, nil).Validate(batch, graphHost{"codes": []any{"a", "b", "c", "d", "e", "f"}})
	assert.Equal(t, []validation.Code{validation.CodeLengthViolation}, codes(report))
}

func TestSession_WrappedConstraintsOnCollections(t *testing.T) {
	tests := []struct {
		name      string
		elemType  values.DataType
		inner     metamodel.Rule
		readings  []any
		wantCodes []validation.Code
		wantPaths []string
	}{
		{
			name:      "unit wrapping length counts elements",
			elemType:  values.DataTypeString,
			inner:     metamodel.LengthRule{Min: u64(1), Max: u64(3)},
			readings:  []any{"abcdefgh", "xyzwvuts"},
			wantCodes: []validation.Code{},
			wantPaths: []string{},
		},
		{
			name:      "unit wrapping length fails on element count",
			elemType:  values.DataTypeString,
			inner:     metamodel.LengthRule{Min: u64(1), Max: u64(3)},
			readings:  []any{"a", "b", "c", "d"},
			wantCodes: []validation.Code{validation.CodeLengthViolation},
			wantPaths: []string{"readings"},
		},
		{
			name:      "unit wrapping range checks each element",
			elemType:  values.DataTypeDouble,
			inner:     metamodel.RangeRule{Min: &metamodel.Bound{Value: 0}, Max: &metamodel.Bound{Value: 100}},
			readings:  []any{10.0, 150.0, 99.5},
			wantCodes: []validation.Code{validation.CodeRangeViolation},
			wantPaths: []string{"readings[1]"},
		},
		{
			name:      "unit wrapping pattern checks each element",
			elemType:  values.DataTypeString,
			inner:     metamodel.PatternRule{Pattern: "^[a-z]+$"},
			readings:  []any{"ok", "Bad", "fine"},
			wantCodes: []validation.Code{validation.CodePatternMismatch},
			wantPaths: []string{"readings[1]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := newConstraint(t, "ReadingInner", metamodel.OnConstraint(testURN("ReadingUnit")), tt.inner, nil)
			outer := newConstraint(t, "ReadingUnit", metamodel.OnProperty(testURN("readings")), metamodel.UnitRule{Unit: kmh}, inner)
			readings, err := metamodel.NewConstraintContainerProperty[graphHost, any, any](spec("readings", "Log", tt.elemType),
				metamodel.ContainerSpec{ElementType: tt.elemType, Ordered: true},
				[]*metamodel.Constraint{outer}, nil)
			require.NoError(t, err)
			log, err := metamodel.NewAspect(metamodel.MustNewMetaClass(metamodel.ModelClassAspect, testNS+"Log"), readings)
			require.NoError(t, err)

			report := NewSession(NewEvaluator(), units()).Validate(log, graphHost{"readings": tt.readings})

			paths := make([]string, 0, len(report.Diagnostics))
			for _, d := range report.Diagnostics {
				paths = append(paths, d.Path)
			}
			assert.Equal(t, tt.wantCodes, codes(report))
			assert.Equal(t, tt.wantPaths, paths)
			assert.Equal(t, len(tt.wantCodes) == 0, report.Passed())
		})
	}
}

func TestSession_InheritedProperties(t *testing.T) {
	idPattern := newConstraint(t, "IdPattern", metamodel.OnProperty(testURN("id")), metamodel.PatternRule{Pattern: "^[0-9]+$"}, nil)
	id, err := metamodel.NewConstraintProperty[graphHost, any](spec("id", "Identified", values.DataTypeString),
		[]*metamodel.Constraint{idPattern}, nil)
	require.NoError(t, err)
	base, err := metamodel.NewEntity(metamodel.MustNewMetaClass(metamodel.ModelClassEntity, testNS+"Identified"), nil, id)
	require.NoError(t, err)

	name, err := metamodel.NewProperty[graphHost, any](spec("name", "Vehicle", values.DataTypeString), nil)
	require.NoError(t, err)
	vehicle, err := metamodel.NewEntity(metamodel.MustNewMetaClass(metamodel.ModelClassEntity, testNS+"Vehicle"), base, name)
	require.NoError(t, err)

	report := NewSession(nil, nil).Validate(vehicle, graphHost{"id": "abc", "name": "truck"})
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, testNS+"id", report.Diagnostics[0].PropertyURN)
	assert.Equal(t, validation.CodePatternMismatch, report.Diagnostics[0].Code)
}

type vehicle struct {
	Plate string
	Speed float64
}

func TestSession_TypedHost(t *testing.T) {
	platePattern := newConstraint(t, "PlatePattern", metamodel.OnProperty(testURN("plate")),
		metamodel.PatternRule{Pattern: "^[A-Z]{2}-[0-9]{3}$"}, nil)
	plate, err := metamodel.NewConstraintProperty(spec("plate", "Vehicle", values.DataTypeString),
		[]*metamodel.Constraint{platePattern}, func(v vehicle) (string, bool) { return v.Plate, v.Plate != "" })
	require.NoError(t, err)

	cap100 := newConstraint(t, "Cap", metamodel.OnProperty(testURN("maxSpeed")),
		metamodel.ExpressionRule{Expression: `value <= 100 || instance.plate == "EM-001"`}, nil)
	speed, err := metamodel.NewConstraintProperty(spec("maxSpeed", "Vehicle", values.DataTypeDouble),
		[]*metamodel.Constraint{cap100}, func(v vehicle) (float64, bool) { return v.Speed, true })
	require.NoError(t, err)

	aspect, err := metamodel.NewAspect(metamodel.MustNewMetaClass(metamodel.ModelClassAspect, testNS+"Vehicle"), plate, speed)
	require.NoError(t, err)

	s := NewSession(nil, nil)
	assert.True(t, s.Validate(aspect, vehicle{Plate: "AB-123", Speed: 80}).Passed())
	assert.True(t, s.Validate(aspect, vehicle{Plate: "EM-001", Speed: 180}).Passed())

	report := s.Validate(aspect, vehicle{Plate: "ab", Speed: 180})
	assert.Equal(t, []validation.Code{validation.CodePatternMismatch, validation.CodeExpressionViolation}, codes(report))
}

func TestSession_IdempotentAndOrderIndependentOfParallelism(t *testing.T) {
	aspect := movementAspect(t)
	instance := graphHost{
		"isMoving": 1,
		"speed":    -5,
		"position": map[string]any{"latitude": 91, "longitude": 0},
		"tags":     []any{},
		"status":   "parked",
	}

	sequential := NewSession(NewEvaluator(), StaticUnits{})
	parallel := NewSession(NewEvaluator(), StaticUnits{}, WithMaxConcurrency(4))

	first, err := json.Marshal(sequential.Validate(aspect, instance))
	require.NoError(t, err)
	second, err := json.Marshal(sequential.Validate(aspect, instance))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	for i := 0; i < 10; i++ {
		got, err := json.Marshal(parallel.Validate(aspect, instance))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(got))
	}

	fa, err := sequential.Validate(aspect, instance).Fingerprint()
	require.NoError(t, err)
	fb, err := parallel.Validate(aspect, instance).Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

func TestSession_ReportIsIndependentOfInstance(t *testing.T) {
	instance := validInstance()
	instance["tags"] = []any{"a", "b", "c", "d"}

	report := NewSession(nil, units()).Validate(movementAspect(t), instance)
	require.NotEmpty(t, report.Diagnostics)
	require.Equal(t, validation.CodeLengthViolation, report.Diagnostics[0].Code)

	instance["tags"].([]any)[0] = "mutated"
	assert.Equal(t, []any{"a", "b", "c", "d"}, report.Diagnostics[0].Value)
}
