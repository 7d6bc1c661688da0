// Package container provides dependency injection for the application.
package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/ports"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/services"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/repositories"
	domainservices "github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/services"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/adapters"
	infraconfig "github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/config"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/metrics"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/output"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/persistence/memory"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/redaction"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/system"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/units"
)

// Container holds all application dependencies.
type Container struct {
	modelLoader      *infraconfig.ModelLoader
	instanceLoader   *infraconfig.InstanceLoader
	unitCatalog      *units.Catalog
	evaluator        *domainservices.Evaluator
	repository       repositories.ReportRepository
	metrics          *metrics.Recorder
	redactor         *redaction.Redactor
	formatters       ports.OutputFormatterFactory
	validateUseCase  *services.ValidateInstanceUseCase
	systemCfg        *system.Config
	defaultLocale    values.Locale
	logger           *slog.Logger
	systemConfigPath string
}

// Options configure the container.
type Options struct {
	Logger           *slog.Logger
	SystemConfigPath string
	// SystemConfig, when set, is used instead of loading SystemConfigPath.
	SystemConfig *system.Config
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	systemCfg := opts.SystemConfig
	if systemCfg == nil {
		var err error
		systemCfg, err = adapters.NewSystemConfigAdapter().LoadConfig(context.TODO(), opts.SystemConfigPath)
		if err != nil {
			opts.Logger.Debug("failed to load system config, using defaults", "error", err)
			systemCfg = system.DefaultConfig()
		}
	}

	locale, err := values.NewLocale(orDefault(systemCfg.DefaultLocale, system.DefaultLocale))
	if err != nil {
		return nil, fmt.Errorf("invalid default_locale: %w", err)
	}

	catalog, err := adapters.UnitCatalogFromConfig(systemCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit catalog: %w", err)
	}

	evaluator := domainservices.NewEvaluator(domainservices.WithExpressionLimits(
		systemCfg.Validation.MaxExpressionLength,
		systemCfg.Validation.MaxExpressionNodes,
	))

	rc := systemCfg.Redaction
	redactor, err := redaction.New(redaction.Config{
		Patterns:        rc.Patterns,
		Paths:           rc.Paths,
		HashMode:        rc.HashMode.Enabled,
		Salt:            rc.HashMode.Salt,
		DisableGitleaks: rc.DisableGitleaks,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid redaction config: %w", err)
	}

	modelLoader := infraconfig.NewModelLoader()
	instanceLoader := infraconfig.NewInstanceLoader()
	repository := memory.NewReportRepository()
	recorder := metrics.NewRecorder()

	validateUseCase := services.NewValidateInstanceUseCase(
		modelLoader,
		instanceLoader,
		catalog,
		evaluator,
		repository,
		recorder,
		opts.Logger,
	).WithRedactor(redactor)

	return &Container{
		modelLoader:      modelLoader,
		instanceLoader:   instanceLoader,
		unitCatalog:      catalog,
		evaluator:        evaluator,
		repository:       repository,
		metrics:          recorder,
		redactor:         redactor,
		formatters:       output.NewFormatterFactory(),
		validateUseCase:  validateUseCase,
		systemCfg:        systemCfg,
		defaultLocale:    locale,
		logger:           opts.Logger,
		systemConfigPath: opts.SystemConfigPath,
	}, nil
}

// ValidateInstanceUseCase returns the validation use case.
func (c *Container) ValidateInstanceUseCase() *services.ValidateInstanceUseCase {
	return c.validateUseCase
}

// ModelLoader returns the model document loader.
func (c *Container) ModelLoader() *infraconfig.ModelLoader {
	return c.modelLoader
}

// InstanceLoader returns the instance loader.
func (c *Container) InstanceLoader() *infraconfig.InstanceLoader {
	return c.instanceLoader
}

// UnitCatalog returns the configured unit catalog.
func (c *Container) UnitCatalog() *units.Catalog {
	return c.unitCatalog
}

// Evaluator returns the shared constraint evaluator.
func (c *Container) Evaluator() *domainservices.Evaluator {
	return c.evaluator
}

// Repository returns the report repository.
func (c *Container) Repository() repositories.ReportRepository {
	return c.repository
}

// Metrics returns the metrics recorder.
func (c *Container) Metrics() *metrics.Recorder {
	return c.metrics
}

// Redactor returns the report redactor.
func (c *Container) Redactor() *redaction.Redactor {
	return c.redactor
}

// Formatters returns the output formatter factory.
func (c *Container) Formatters() ports.OutputFormatterFactory {
	return c.formatters
}

// SystemConfig returns the loaded system configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.systemCfg
}

// DefaultLocale returns the locale used for descriptions.
func (c *Container) DefaultLocale() values.Locale {
	return c.defaultLocale
}

// Timeout returns the configured outer budget for one validation run.
func (c *Container) Timeout() time.Duration {
	d, err := c.systemCfg.Validation.TimeoutDuration()
	if err != nil {
		return system.DefaultTimeout
	}
	return d
}

// Logger returns the logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
