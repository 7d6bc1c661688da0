package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/dto"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/ports"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

type validateOptions struct {
	CommonOptions
	Aspect      string
	Compact     bool
	MetricsFile string
}

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{CommonOptions: DefaultCommonOptions()}

	cmd := &cobra.Command{
		Use:   "validate <model.yaml> <instance.json|instance.yaml>",
		Short: "Validate instance data against an aspect model",
		Long: `Load an aspect model document, read an instance and check every property,
characteristic and constraint. All violations are reported; the command exits
non-zero when any is found.`,
		Example: `  esmf validate movement.yaml movement.json
  esmf validate movement.yaml movement.yaml --format sarif -o report.sarif
  esmf validate model.yaml data.json --aspect Movement --parallel --max-concurrency 8`,
		Args: cobra.ExactArgs(2),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			return runValidate(ctx, cmd, opts, args[0], args[1])
		}),
	}

	opts.RegisterFlags(cmd)
	cmd.Flags().StringVar(&opts.Aspect, "aspect", "", "Aspect name or URN when the model declares several")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "Write JSON without indentation")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics", "", "Write Prometheus metrics in text format to this file")

	return cmd
}

func runValidate(ctx *CommandContext, cmd *cobra.Command, opts *validateOptions, modelPath, instancePath string) error {
	c := ctx.Container
	if err := opts.ApplyConfig(cmd, viper.GetViper(), c.SystemConfig()); err != nil {
		return err
	}
	if err := opts.ValidateFlags(c.Formatters().SupportedFormats()); err != nil {
		return err
	}

	runCtx, cancel := opts.ApplyToContext(ctx.Context)
	defer cancel()

	resp, err := c.ValidateInstanceUseCase().Execute(runCtx, dto.ValidateRequest{
		Metadata:     dto.RequestMetadata{RequestID: values.NewReportID().String()},
		ModelPath:    modelPath,
		InstancePath: instancePath,
		AspectName:   opts.Aspect,
		Options: dto.ValidateOptions{
			Parallel:       opts.Parallel,
			MaxConcurrency: opts.MaxConcurrency,
		},
	})
	if err != nil {
		return err
	}
	ctx.Logger.Debug("report fingerprint", "fingerprint", resp.Fingerprint, "id", resp.Record.ID.String())

	var writer io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		//nolint:gosec // G304: User-controlled output file path is intentional
		file, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			_ = file.Close() // Best-effort cleanup
		}()
		writer = file
		ctx.Logger.Info("writing output", "file", opts.Output, "format", opts.Format)
	}

	formatter, err := c.Formatters().Create(opts.Format, writer, ports.FormatterOptions{
		Indent:    !opts.Compact,
		ModelPath: modelPath,
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(resp.Record); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if opts.MetricsFile != "" {
		if err := writeMetrics(ctx, opts.MetricsFile); err != nil {
			return err
		}
	}

	report := resp.Record.Report
	if !report.Passed() {
		return fmt.Errorf("validation failed: %d failed, %d errors",
			len(report.Failures()), len(report.Errors()))
	}
	return nil
}

func writeMetrics(ctx *CommandContext, path string) error {
	//nolint:gosec // G304: User-controlled output file path is intentional
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()
	if err := ctx.Container.Metrics().WriteText(file); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
