package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/services"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// fallbackLocale is tried when the requested locale has no text.
var fallbackLocale = values.MustNewLocale("en")

func init() {
	rootCmd.AddCommand(newDescribeCmd())
}

func newDescribeCmd() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "describe <model.yaml>",
		Short: "Print the aspects of a model with their properties",
		Long: `Load an aspect model and print every aspect with its localized names,
descriptions, properties, units and constraints.`,
		Example: `  esmf describe movement.yaml
  esmf describe movement.yaml --locale de`,
		Args: cobra.ExactArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			loc := ctx.Container.DefaultLocale()
			if locale != "" {
				l, err := values.NewLocale(locale)
				if err != nil {
					return err
				}
				loc = l
			}

			graph, err := ctx.Container.ModelLoader().LoadModel(args[0])
			if err != nil {
				return err
			}

			d := &describer{w: cmd.OutOrStdout(), locale: loc, units: ctx.Container.UnitCatalog()}
			for _, aspect := range graph.Aspects() {
				d.container(aspect, 0, map[string]bool{})
			}
			return d.err
		}),
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Locale for names and descriptions (default from config)")

	return cmd
}

// describer renders property containers as an indented outline. The first
// write error is kept and later writes are skipped.
type describer struct {
	w      io.Writer
	locale values.Locale
	units  services.UnitResolver
	err    error
}

func (d *describer) printf(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, strings.Repeat("  ", depth)+format+"\n", args...)
}

func (d *describer) container(c metamodel.PropertyContainer, depth int, visiting map[string]bool) {
	urn := c.AspectModelURN().String()
	d.printf(depth, "%s %s (%s)", c.ModelClass(), c.Name(), urn)
	d.described(c, depth+1)
	if base := c.Extends(); base != nil {
		d.printf(depth+1, "extends: %s", base.Name())
	}

	if visiting[urn] {
		d.printf(depth+1, "(recursive)")
		return
	}
	visiting[urn] = true
	defer delete(visiting, urn)

	for _, p := range c.AllProperties() {
		d.property(p, depth+1, visiting)
	}
}

func (d *describer) property(p metamodel.Property, depth int, visiting map[string]bool) {
	var flags []string
	if p.IsOptional() {
		flags = append(flags, "optional")
	}
	if p.PayloadName() != p.Name() {
		flags = append(flags, "payload "+p.PayloadName())
	}

	line := fmt.Sprintf("- %s: %s [%s]", p.Name(), p.DataType(), p.PropertyType())
	if len(flags) > 0 {
		line += " (" + strings.Join(flags, ", ") + ")"
	}
	d.printf(depth, "%s", line)
	d.described(p, depth+1)

	if ch := p.Characteristic(); ch != nil {
		if ch.IsEnumerated() {
			d.printf(depth+1, "characteristic: %s %s %v", ch.Kind(), ch.Name(), ch.AllowedValues())
		} else {
			d.printf(depth+1, "characteristic: %s %s", ch.Kind(), ch.Name())
		}
	}
	if m, ok := p.(metamodel.Measured); ok {
		symbol, found := d.units.Symbol(m.Unit())
		if !found {
			symbol = "unregistered"
		}
		d.printf(depth+1, "unit: %s (%s)", m.Unit().Name(), symbol)
	}
	if ct, ok := p.(metamodel.Contained); ok {
		d.printf(depth+1, "collection of %s (ordered=%t, unique=%t)", ct.ElementType(), ct.IsOrdered(), ct.IsUnique())
	}
	if cs, ok := p.(metamodel.Constrained); ok {
		for _, c := range cs.Constraints() {
			for i, link := range c.Chain() {
				d.printf(depth+1+i, "constraint %s: %s", link.Name(), link.PropertyType())
			}
		}
	}

	entity := p.Entity()
	if ct, ok := p.(metamodel.Contained); ok && ct.ElementEntity() != nil {
		entity = ct.ElementEntity()
	}
	if entity != nil {
		d.container(entity, depth+1, visiting)
	}
}

func (d *describer) described(el metamodel.DescribedElement, depth int) {
	if name, ok := localized(el.PreferredNames(), d.locale); ok {
		d.printf(depth, "name: %s", name)
	}
	if desc, ok := localized(el.Descriptions(), d.locale); ok {
		d.printf(depth, "description: %s", desc)
	}
	for _, ref := range el.See() {
		d.printf(depth, "see: %s", ref)
	}
}

// localized returns the text for locale, then for its base language, then
// English, then the first stored locale.
func localized(m metamodel.LangMap, locale values.Locale) (string, bool) {
	if len(m) == 0 {
		return "", false
	}
	if s, ok := m.Get(locale); ok {
		return s, true
	}
	if base, err := values.NewLocale(strings.SplitN(locale.String(), "-", 2)[0]); err == nil {
		if s, ok := m.Get(base); ok {
			return s, true
		}
	}
	if s, ok := m.Get(fallbackLocale); ok {
		return s, true
	}
	return m.Get(m.Locales()[0])
}
