package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/output"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/system"
)

// CommonOptions contains flags shared by commands that run validations.
type CommonOptions struct {
	// Output
	Format string
	Output string

	// Execution
	Timeout        time.Duration
	MaxConcurrency int

	Parallel bool
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Format:         system.DefaultOutputFormat,
		Timeout:        system.DefaultTimeout,
		MaxConcurrency: system.DefaultMaxConcurrency,
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	// Execution
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Global timeout for the validation run (0 to disable)")
	cmd.Flags().BoolVar(&opts.Parallel, "parallel", opts.Parallel,
		"Evaluate top-level properties in parallel")
	cmd.Flags().IntVar(&opts.MaxConcurrency, "max-concurrency", opts.MaxConcurrency,
		"Maximum properties evaluated at once with --parallel")

	// Output
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: table, json, yaml, junit, sarif")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", opts.Output,
		"Output file path (default: stdout)")
}

// ApplyConfig fills options the user did not set on the command line from
// viper (config file or ESMF_* environment) and then from the system config.
// Without an explicit format, a known output file extension picks one.
func (opts *CommonOptions) ApplyConfig(cmd *cobra.Command, v *viper.Viper, cfg *system.Config) error {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if !changed("output") {
		if s := v.GetString("output.file"); s != "" {
			opts.Output = s
		} else if cfg != nil && cfg.Output.File != "" {
			opts.Output = cfg.Output.File
		}
	}
	if !changed("format") {
		if s := v.GetString("output.format"); s != "" {
			opts.Format = s
		} else if f, ok := output.FormatForPath(opts.Output); ok {
			opts.Format = f
		} else if cfg != nil && cfg.Output.Format != "" {
			opts.Format = cfg.Output.Format
		}
	}
	if !changed("timeout") {
		if s := v.GetString("validation.timeout"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return fmt.Errorf("invalid validation.timeout %q: %w", s, err)
			}
			opts.Timeout = d
		} else if cfg != nil {
			d, err := cfg.Validation.TimeoutDuration()
			if err != nil {
				return err
			}
			opts.Timeout = d
		}
	}
	if !changed("parallel") {
		if v.IsSet("validation.parallel") {
			opts.Parallel = v.GetBool("validation.parallel")
		} else if cfg != nil {
			opts.Parallel = cfg.Validation.Parallel
		}
	}
	if !changed("max-concurrency") {
		if n := v.GetInt("validation.max_concurrency"); n > 0 {
			opts.MaxConcurrency = n
		} else if cfg != nil && cfg.Validation.MaxConcurrency > 0 {
			opts.MaxConcurrency = cfg.Validation.MaxConcurrency
		}
	}
	return nil
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	// No timeout - return no-op cancel
	return ctx, func() {}
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags(supported []string) error {
	valid := false
	for _, f := range supported {
		if strings.EqualFold(f, opts.Format) {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid format: %s (valid: %v)", opts.Format, supported)
	}
	if opts.Timeout < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}
	if opts.Parallel && opts.MaxConcurrency < 2 {
		return fmt.Errorf("--parallel needs --max-concurrency of at least 2, got %d", opts.MaxConcurrency)
	}
	return nil
}
