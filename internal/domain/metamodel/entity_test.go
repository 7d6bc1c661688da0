package metamodel

import (
	"testing"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainProperty(t *testing.T, owner, name string, dt values.DataType) Property {
	t.Helper()
	p, err := NewProperty[map[string]any, any](PropertySpec{
		Meta:           MustNewMetaClass(ModelClassProperty, testNS+name),
		ContainingType: testURN(owner),
		DataType:       dt,
	}, nil)
	require.NoError(t, err)
	return p
}

func names(props []Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.Name())
	}
	return out
}

func TestEntity_AllPropertiesIncludesInherited(t *testing.T) {
	base, err := NewEntity(MustNewMetaClass(ModelClassEntity, testNS+"Point"), nil,
		plainProperty(t, "Point", "x", values.DataTypeFloat),
		plainProperty(t, "Point", "y", values.DataTypeFloat))
	require.NoError(t, err)

	derived, err := NewEntity(MustNewMetaClass(ModelClassEntity, testNS+"Point3D"), base,
		plainProperty(t, "Point3D", "z", values.DataTypeFloat))
	require.NoError(t, err)

	assert.Equal(t, []string{"z"}, names(derived.Properties()))
	assert.Equal(t, []string{"x", "y", "z"}, names(derived.AllProperties()))
	assert.Equal(t, ModelClassEntity, derived.ModelClass())
	assert.False(t, derived.IsAspect())

	p, ok := derived.Property("x")
	require.True(t, ok)
	assert.Equal(t, "x", p.Name())

	_, ok = derived.PropertyByURN(testURN("z"))
	assert.True(t, ok)
}

func TestEntity_Invariants(t *testing.T) {
	t.Run("foreign property", func(t *testing.T) {
		_, err := NewAspect(MustNewMetaClass(ModelClassAspect, testNS+"Movement"),
			plainProperty(t, "Other", "speed", values.DataTypeFloat))
		var inv *InvariantError
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, RuleForeignProperty, inv.Rule)
	})

	t.Run("duplicate name", func(t *testing.T) {
		first := plainProperty(t, "Movement", "speed", values.DataTypeFloat)
		second, err := NewProperty[map[string]any, any](PropertySpec{
			Meta:           MustNewMetaClass(ModelClassProperty, testNS+"speed2"),
			ContainingType: testURN("Movement"),
			DataType:       values.DataTypeFloat,
			PayloadName:    "speed",
		}, nil)
		require.NoError(t, err)

		_, err = NewAspect(MustNewMetaClass(ModelClassAspect, testNS+"Movement"), first, second)
		var inv *InvariantError
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, RuleDuplicateName, inv.Rule)
	})

	t.Run("inherited duplicate name", func(t *testing.T) {
		base, err := NewEntity(MustNewMetaClass(ModelClassEntity, testNS+"Base"), nil,
			plainProperty(t, "Base", "id", values.DataTypeString))
		require.NoError(t, err)

		shadow, err := NewProperty[map[string]any, any](PropertySpec{
			Meta:           MustNewMetaClass(ModelClassProperty, testNS+"derivedId"),
			ContainingType: testURN("Derived"),
			DataType:       values.DataTypeString,
			PayloadName:    "id",
		}, nil)
		require.NoError(t, err)

		_, err = NewEntity(MustNewMetaClass(ModelClassEntity, testNS+"Derived"), base, shadow)
		var inv *InvariantError
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, RuleDuplicateName, inv.Rule)
	})

	t.Run("extends itself", func(t *testing.T) {
		base, err := NewEntity(MustNewMetaClass(ModelClassEntity, testNS+"Loop"), nil)
		require.NoError(t, err)
		_, err = NewEntity(MustNewMetaClass(ModelClassEntity, testNS+"Loop"), base)
		var inv *InvariantError
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, RuleInheritanceCycle, inv.Rule)
	})
}

func TestGraph_RegisterContainer(t *testing.T) {
	ch, err := NewCharacteristic(MustNewMetaClass(ModelClassCharacteristic, testNS+"Speed"),
		CharacteristicMeasurement, values.DataTypeFloat)
	require.NoError(t, err)

	c, err := NewConstraint(MustNewMetaClass(ModelClassConstraint, testNS+"SpeedRange"),
		OnProperty(testURN("speed")), RangeRule{Min: &Bound{Value: 0}}, nil)
	require.NoError(t, err)

	speed, err := NewConstraintProperty[map[string]any, any](PropertySpec{
		Meta:           MustNewMetaClass(ModelClassProperty, testNS+"speed"),
		ContainingType: testURN("Movement"),
		DataType:       values.DataTypeFloat,
		Characteristic: ch,
	}, []*Constraint{c}, nil)
	require.NoError(t, err)

	aspect, err := NewAspect(MustNewMetaClass(ModelClassAspect, testNS+"Movement"), speed)
	require.NoError(t, err)

	g := NewGraph()
	require.NoError(t, g.RegisterContainer(aspect))
	// Re-registering the same elements is harmless.
	require.NoError(t, g.RegisterContainer(aspect))

	assert.Equal(t, 4, g.Len())
	counts := g.Counts()
	assert.Equal(t, 1, counts[ModelClassAspect])
	assert.Equal(t, 1, counts[ModelClassProperty])
	assert.Equal(t, 1, counts[ModelClassCharacteristic])
	assert.Equal(t, 1, counts[ModelClassConstraint])

	el, ok := g.Lookup(testURN("SpeedRange"))
	require.True(t, ok)
	assert.Same(t, c, el)

	aspects := g.Aspects()
	require.Len(t, aspects, 1)
	assert.Same(t, aspect, aspects[0])
	assert.Equal(t, "Movement", g.Elements()[0].Name())
}

func TestGraph_DuplicateURN(t *testing.T) {
	g := NewGraph()
	a := plainProperty(t, "Movement", "speed", values.DataTypeFloat)
	b := plainProperty(t, "Movement", "speed", values.DataTypeFloat)

	require.NoError(t, g.Register(a))
	err := g.Register(b)
	var inv *InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, RuleDuplicateURN, inv.Rule)
}
