package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/units"
)

func init() {
	rootCmd.AddCommand(newUnitsCmd())
}

func newUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "units",
		Short:   "List the units of the unit catalog",
		Long:    `List every unit the validator resolves, including configured overrides.`,
		Example: `  esmf units`,
		Args:    cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			return listUnits(cmd.OutOrStdout(), ctx.Container.UnitCatalog())
		}),
	}
}

func listUnits(out io.Writer, catalog *units.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	if _, err := fmt.Fprintln(w, "NAME\tSYMBOL\tQUANTITY KINDS"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, u := range catalog.Units() {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", u.Name, u.Symbol, strings.Join(u.QuantityKinds, ", ")); err != nil {
			return fmt.Errorf("failed to write unit info: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	return nil
}
