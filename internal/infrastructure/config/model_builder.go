package config

import (
	"fmt"
	"strings"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// unitNamespace is where catalog units live when a document names a unit
// without a full URN.
const unitNamespace = "org.eclipse.esmf.samm"

// Host is the instance shape properties built from documents are resolved
// against: graph-shaped data decoded from JSON or YAML.
type Host = map[string]any

type describable interface {
	AddPreferredName(locale values.Locale, name *string)
	AddDescription(locale values.Locale, description *string)
	AddSeeReference(ref string)
}

// modelBuilder turns a schema-checked document into model elements.
type modelBuilder struct {
	doc             *ModelDocument
	namespace       string
	version         values.MetaModelVersion
	characteristics map[string]*metamodel.Characteristic
	entityDocs      map[string]*EntityDoc
	entities        map[string]*metamodel.Entity
	building        map[string]bool
}

func newModelBuilder(doc *ModelDocument) (*modelBuilder, error) {
	b := &modelBuilder{
		doc:             doc,
		namespace:       doc.Namespace,
		characteristics: make(map[string]*metamodel.Characteristic),
		entityDocs:      make(map[string]*EntityDoc),
		entities:        make(map[string]*metamodel.Entity),
		building:        make(map[string]bool),
	}

	if doc.MetaModelVersion != "" {
		v, err := values.NewMetaModelVersion(doc.MetaModelVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid metaModelVersion: %w", err)
		}
		b.version = v
	} else {
		b.version = values.MustNewMetaModelVersion(values.DefaultMetaModelVersion)
	}
	return b, nil
}

// build constructs every element and registers the aspect's closure in a graph.
func (b *modelBuilder) build() (*metamodel.Graph, error) {
	for i := range b.doc.Characteristics {
		cd := &b.doc.Characteristics[i]
		if _, dup := b.characteristics[cd.Name]; dup {
			return nil, &metamodel.InvariantError{Element: cd.Name, Rule: metamodel.RuleDuplicateURN, Detail: "characteristic declared twice"}
		}
		ch, err := b.characteristic(cd)
		if err != nil {
			return nil, err
		}
		b.characteristics[cd.Name] = ch
	}

	for i := range b.doc.Entities {
		ed := &b.doc.Entities[i]
		if _, dup := b.entityDocs[ed.Name]; dup {
			return nil, &metamodel.InvariantError{Element: ed.Name, Rule: metamodel.RuleDuplicateURN, Detail: "entity declared twice"}
		}
		b.entityDocs[ed.Name] = ed
	}

	graph := metamodel.NewGraph()
	for i := range b.doc.Characteristics {
		if err := graph.Register(b.characteristics[b.doc.Characteristics[i].Name]); err != nil {
			return nil, err
		}
	}
	for i := range b.doc.Entities {
		e, err := b.entity(b.doc.Entities[i].Name)
		if err != nil {
			return nil, err
		}
		if err := graph.RegisterContainer(e); err != nil {
			return nil, err
		}
	}

	aspect, err := b.aspect(&b.doc.Aspect)
	if err != nil {
		return nil, err
	}
	if err := graph.RegisterContainer(aspect); err != nil {
		return nil, err
	}
	return graph, nil
}

func (b *modelBuilder) urn(name string) (values.AspectModelURN, error) {
	if strings.HasPrefix(name, "urn:") {
		return values.ParseAspectModelURN(name)
	}
	return values.ParseAspectModelURN(b.namespace + "#" + name)
}

func (b *modelBuilder) meta(class metamodel.ModelClass, name string) (metamodel.MetaClass, error) {
	urn, err := b.urn(name)
	if err != nil {
		return metamodel.MetaClass{}, err
	}
	return metamodel.NewMetaClass(class, urn, b.version, "")
}

func (b *modelBuilder) unitURN(ref string) (values.AspectModelURN, error) {
	if strings.HasPrefix(ref, "urn:") {
		return values.ParseAspectModelURN(ref)
	}
	return values.ParseAspectModelURN(fmt.Sprintf("urn:samm:%s:%s:%s#%s",
		unitNamespace, values.URNTypeUnit, b.version.String(), ref))
}

func (b *modelBuilder) characteristic(cd *CharacteristicDoc) (*metamodel.Characteristic, error) {
	meta, err := b.meta(metamodel.ModelClassCharacteristic, cd.Name)
	if err != nil {
		return nil, fmt.Errorf("characteristic %s: %w", cd.Name, err)
	}
	ch, err := metamodel.NewCharacteristic(meta, metamodel.CharacteristicKind(cd.Kind), values.DataType(cd.DataType), cd.Values...)
	if err != nil {
		return nil, err
	}
	if err := describe(ch, cd.DescribedDoc); err != nil {
		return nil, fmt.Errorf("characteristic %s: %w", cd.Name, err)
	}
	return ch, nil
}

// entity builds the named entity after its base and every entity its
// properties refer to. Reference cycles cannot be built.
func (b *modelBuilder) entity(name string) (*metamodel.Entity, error) {
	if e, ok := b.entities[name]; ok {
		return e, nil
	}
	ed, ok := b.entityDocs[name]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", name)
	}
	if b.building[name] {
		return nil, &metamodel.InvariantError{Element: name, Rule: metamodel.RuleInheritanceCycle, Detail: "entity refers back to itself"}
	}
	b.building[name] = true
	defer delete(b.building, name)

	var base *metamodel.Entity
	if ed.Extends != "" {
		var err error
		if base, err = b.entity(ed.Extends); err != nil {
			return nil, err
		}
	}

	meta, err := b.meta(metamodel.ModelClassEntity, ed.Name)
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", ed.Name, err)
	}
	props, err := b.properties(meta.AspectModelURN(), ed.Properties)
	if err != nil {
		return nil, err
	}
	e, err := metamodel.NewEntity(meta, base, props...)
	if err != nil {
		return nil, err
	}
	if err := describe(e, ed.DescribedDoc); err != nil {
		return nil, fmt.Errorf("entity %s: %w", ed.Name, err)
	}
	b.entities[name] = e
	return e, nil
}

func (b *modelBuilder) aspect(ad *AspectDoc) (*metamodel.Entity, error) {
	meta, err := b.meta(metamodel.ModelClassAspect, ad.Name)
	if err != nil {
		return nil, fmt.Errorf("aspect %s: %w", ad.Name, err)
	}
	props, err := b.properties(meta.AspectModelURN(), ad.Properties)
	if err != nil {
		return nil, err
	}
	a, err := metamodel.NewAspect(meta, props...)
	if err != nil {
		return nil, err
	}
	if err := describe(a, ad.DescribedDoc); err != nil {
		return nil, fmt.Errorf("aspect %s: %w", ad.Name, err)
	}
	return a, nil
}

func (b *modelBuilder) properties(owner values.AspectModelURN, docs []PropertyDoc) ([]metamodel.Property, error) {
	props := make([]metamodel.Property, 0, len(docs))
	for i := range docs {
		p, err := b.property(owner, &docs[i])
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, nil
}

// property picks the variant from the declared facets: collection, unit and
// constraints.
func (b *modelBuilder) property(owner values.AspectModelURN, pd *PropertyDoc) (metamodel.Property, error) {
	meta, err := b.meta(metamodel.ModelClassProperty, pd.Name)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", pd.Name, err)
	}
	spec := metamodel.PropertySpec{
		Meta:           meta,
		ContainingType: owner,
		DataType:       values.DataType(pd.DataType),
		Optional:       pd.Optional,
		PayloadName:    pd.PayloadName,
	}

	if pd.Characteristic != "" {
		ch, ok := b.characteristics[pd.Characteristic]
		if !ok {
			return nil, fmt.Errorf("property %s: unknown characteristic %q", pd.Name, pd.Characteristic)
		}
		spec.Characteristic = ch
		if spec.DataType == "" {
			spec.DataType = ch.DataType()
		}
	}
	if pd.Entity != "" {
		e, err := b.entity(pd.Entity)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", pd.Name, err)
		}
		spec.Entity = e
		if spec.DataType == "" {
			spec.DataType = values.DataTypeEntity
		}
	}

	constraints, err := b.constraints(meta.AspectModelURN(), pd.Constraints)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", pd.Name, err)
	}

	var unit values.AspectModelURN
	if pd.Unit != "" {
		if unit, err = b.unitURN(pd.Unit); err != nil {
			return nil, fmt.Errorf("property %s: unit: %w", pd.Name, err)
		}
	}

	var p metamodel.Property
	switch {
	case pd.Collection != nil:
		if pd.Unit != "" {
			return nil, fmt.Errorf("property %s: collections cannot declare a unit", pd.Name)
		}
		shape, err := b.shape(pd.Collection, spec.DataType)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", pd.Name, err)
		}
		// A collection's data type is the type of its elements.
		if spec.DataType == "" || spec.DataType == values.DataTypeEntity {
			spec.DataType = shape.ElementType
		}
		if shape.ElementEntity != nil {
			spec.Entity = shape.ElementEntity
		}
		if len(constraints) > 0 {
			p, err = metamodel.NewConstraintContainerProperty[Host, []any, any](spec, shape, constraints, nil)
		} else {
			p, err = metamodel.NewContainerProperty[Host, []any, any](spec, shape, nil)
		}
		if err != nil {
			return nil, err
		}
	case pd.Unit != "" && len(constraints) > 0:
		p, err = metamodel.NewConstraintUnitProperty[Host, any](spec, unit, constraints, nil)
	case pd.Unit != "":
		p, err = metamodel.NewUnitProperty[Host, any](spec, unit, nil)
	case len(constraints) > 0:
		p, err = metamodel.NewConstraintProperty[Host, any](spec, constraints, nil)
	default:
		p, err = metamodel.NewProperty[Host, any](spec, nil)
	}
	if err != nil {
		return nil, err
	}

	if err := describe(p.(describable), pd.DescribedDoc); err != nil {
		return nil, fmt.Errorf("property %s: %w", pd.Name, err)
	}
	return p, nil
}

func (b *modelBuilder) shape(cd *CollectionDoc, declared values.DataType) (metamodel.ContainerSpec, error) {
	elementType := values.DataType(cd.ElementType)
	if elementType == "" && cd.ElementEntity == "" {
		elementType = declared
	}
	shape := metamodel.ContainerSpec{
		ElementType: elementType,
		Ordered:     cd.Ordered,
		Unique:      cd.Unique,
	}
	if cd.ElementEntity != "" {
		e, err := b.entity(cd.ElementEntity)
		if err != nil {
			return metamodel.ContainerSpec{}, err
		}
		shape.ElementEntity = e
		if shape.ElementType == "" {
			shape.ElementType = values.DataTypeEntity
		}
	}
	return shape, nil
}

func (b *modelBuilder) constraints(property values.AspectModelURN, docs []ConstraintDoc) ([]*metamodel.Constraint, error) {
	out := make([]*metamodel.Constraint, 0, len(docs))
	for i := range docs {
		name := docs[i].Name
		if name == "" {
			name = fmt.Sprintf("%s-%s-%d", property.Name(), docs[i].Kind, i)
		}
		c, err := b.constraint(metamodel.OnProperty(property), name, &docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// constraint builds a node and, depth first, the constraint it wraps.
func (b *modelBuilder) constraint(target metamodel.Target, name string, cd *ConstraintDoc) (*metamodel.Constraint, error) {
	meta, err := b.meta(metamodel.ModelClassConstraint, name)
	if err != nil {
		return nil, fmt.Errorf("constraint %s: %w", name, err)
	}
	rule, err := b.rule(cd)
	if err != nil {
		return nil, fmt.Errorf("constraint %s: %w", name, err)
	}

	var inner *metamodel.Constraint
	if cd.Inner != nil {
		innerName := cd.Inner.Name
		if innerName == "" {
			innerName = name + "-inner"
		}
		inner, err = b.constraint(metamodel.OnConstraint(meta.AspectModelURN()), innerName, cd.Inner)
		if err != nil {
			return nil, err
		}
	}

	c, err := metamodel.NewConstraint(meta, target, rule, inner)
	if err != nil {
		return nil, err
	}
	if err := describe(c, cd.DescribedDoc); err != nil {
		return nil, fmt.Errorf("constraint %s: %w", name, err)
	}
	return c, nil
}

func (b *modelBuilder) rule(cd *ConstraintDoc) (metamodel.Rule, error) {
	switch metamodel.ConstraintKind(cd.Kind) {
	case metamodel.ConstraintPattern:
		return metamodel.PatternRule{Pattern: cd.Pattern}, nil
	case metamodel.ConstraintRange:
		return metamodel.RangeRule{Min: bound(cd.Min, metamodel.BoundAtLeast), Max: bound(cd.Max, metamodel.BoundAtMost)}, nil
	case metamodel.ConstraintLength:
		return metamodel.LengthRule{Min: cd.MinLength, Max: cd.MaxLength, Unique: cd.Unique}, nil
	case metamodel.ConstraintUnit:
		if cd.Unit == "" {
			return nil, fmt.Errorf("unit constraint declares no unit")
		}
		u, err := b.unitURN(cd.Unit)
		if err != nil {
			return nil, err
		}
		return metamodel.UnitRule{Unit: u}, nil
	case metamodel.ConstraintEncoding:
		return metamodel.EncodingRule{Encoding: cd.Encoding}, nil
	case metamodel.ConstraintLanguage:
		l, err := values.NewLocale(cd.Language)
		if err != nil {
			return nil, err
		}
		return metamodel.LanguageRule{Language: l}, nil
	case metamodel.ConstraintLocale:
		l, err := values.NewLocale(cd.Locale)
		if err != nil {
			return nil, err
		}
		return metamodel.LocaleRule{Locale: l}, nil
	case metamodel.ConstraintFixedPoint:
		return metamodel.FixedPointRule{Scale: cd.Scale, Integer: cd.Integer}, nil
	case metamodel.ConstraintExpression:
		return metamodel.ExpressionRule{Expression: cd.Expression}, nil
	default:
		return nil, fmt.Errorf("unknown constraint kind %q", cd.Kind)
	}
}

func bound(bd *BoundDoc, def metamodel.BoundDefinition) *metamodel.Bound {
	if bd == nil {
		return nil
	}
	if bd.Definition != "" {
		def = metamodel.BoundDefinition(bd.Definition)
	}
	return &metamodel.Bound{Value: bd.Value, Definition: def}
}

func describe(el describable, dd DescribedDoc) error {
	for tag, text := range dd.PreferredName {
		l, err := values.NewLocale(tag)
		if err != nil {
			return fmt.Errorf("preferredName: %w", err)
		}
		el.AddPreferredName(l, &text)
	}
	for tag, text := range dd.Description {
		l, err := values.NewLocale(tag)
		if err != nil {
			return fmt.Errorf("description: %w", err)
		}
		el.AddDescription(l, &text)
	}
	for _, ref := range dd.See {
		el.AddSeeReference(ref)
	}
	return nil
}
