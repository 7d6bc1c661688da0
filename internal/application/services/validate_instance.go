// Package services contains application use cases.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/dto"
	apperrors "github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/errors"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/ports"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/repositories"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/services"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
)

// Load stages passed to ports.MetricsRecorder.RecordLoadFailure.
const (
	stageModel    = "model"
	stageInstance = "instance"
)

// ValidateInstanceUseCase loads a model and an instance, validates the
// instance and stores the resulting record.
type ValidateInstanceUseCase struct {
	modelLoader    ports.ModelLoader
	instanceLoader ports.InstanceLoader
	units          ports.UnitCatalog
	evaluator      *services.Evaluator
	repository     repositories.ReportRepository
	metrics        ports.MetricsRecorder
	redactor       ports.ReportRedactor
	logger         *slog.Logger
}

// NewValidateInstanceUseCase creates the use case. evaluator, metrics and
// logger may be nil.
func NewValidateInstanceUseCase(
	modelLoader ports.ModelLoader,
	instanceLoader ports.InstanceLoader,
	units ports.UnitCatalog,
	evaluator *services.Evaluator,
	repository repositories.ReportRepository,
	metrics ports.MetricsRecorder,
	logger *slog.Logger,
) *ValidateInstanceUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if evaluator == nil {
		evaluator = services.NewEvaluator()
	}

	return &ValidateInstanceUseCase{
		modelLoader:    modelLoader,
		instanceLoader: instanceLoader,
		units:          units,
		evaluator:      evaluator,
		repository:     repository,
		metrics:        metrics,
		logger:         logger,
	}
}

// WithRedactor scrubs every report before it is stored or returned.
func (uc *ValidateInstanceUseCase) WithRedactor(r ports.ReportRedactor) *ValidateInstanceUseCase {
	uc.redactor = r
	return uc
}

// Execute runs the complete validation workflow.
func (uc *ValidateInstanceUseCase) Execute(ctx context.Context, req dto.ValidateRequest) (*dto.ValidateResponse, error) {
	startTime := time.Now()

	// 1. Build the model graph
	uc.logger.Info("loading model", "path", req.ModelPath)
	aspect, err := uc.loadAspect(req.ModelPath, req.AspectName)
	if err != nil {
		uc.recordLoadFailure(stageModel)
		return nil, err
	}
	uc.logger.Info("model loaded",
		"aspect", aspect.AspectModelURN().String(),
		"properties", len(aspect.AllProperties()))

	// 2. Read the instance
	uc.logger.Debug("loading instance", "path", req.InstancePath)
	instance, err := uc.instanceLoader.LoadInstance(req.InstancePath)
	if err != nil {
		uc.recordLoadFailure(stageInstance)
		return nil, apperrors.NewValidationError("instance", "failed to load instance", err)
	}

	// 3. Validate within the outer budget
	report, duration, err := uc.validate(ctx, aspect, instance, req.Options)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("validation complete",
		"status", report.Status,
		"duration", duration,
		"properties", report.Summary.Properties,
		"evaluations", report.Summary.Evaluations,
		"failed", report.Summary.Failed,
		"errors", report.Summary.Errored)

	// 4. Persist and measure
	if uc.redactor != nil {
		uc.redactor.RedactReport(report)
	}
	record := validation.NewRecord(report, duration)
	if uc.repository != nil {
		if err := uc.repository.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to store report: %w", err)
		}
	}
	if uc.metrics != nil {
		uc.metrics.RecordValidation(report.ModelURN, report, duration)
	}

	fingerprint, err := report.Fingerprint()
	if err != nil {
		return nil, err
	}

	return &dto.ValidateResponse{
		Record:      record,
		Fingerprint: fingerprint,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
		},
	}, nil
}

func (uc *ValidateInstanceUseCase) loadAspect(path, name string) (*metamodel.Entity, error) {
	graph, err := uc.modelLoader.LoadModel(path)
	if err != nil {
		var inv *metamodel.InvariantError
		if errors.As(err, &inv) {
			return nil, apperrors.NewConstructionError(inv.Element, inv.Rule, err)
		}
		return nil, apperrors.NewValidationError("model", "failed to load model", err)
	}

	aspects := graph.Aspects()
	if name == "" {
		if len(aspects) != 1 {
			return nil, apperrors.NewValidationError("aspect",
				fmt.Sprintf("model declares %d aspects, pick one by name", len(aspects)), nil)
		}
		return aspects[0], nil
	}
	for _, a := range aspects {
		if a.Name() == name || a.AspectModelURN().String() == name {
			return a, nil
		}
	}
	return nil, apperrors.NewValidationError("aspect", fmt.Sprintf("no aspect named %s", name), nil)
}

// validate runs the session. Sessions cannot be interrupted; when ctx ends
// first the result is abandoned and ctx's error returned.
func (uc *ValidateInstanceUseCase) validate(
	ctx context.Context,
	aspect *metamodel.Entity,
	instance map[string]any,
	opts dto.ValidateOptions,
) (*validation.Report, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var sessionOpts []services.SessionOption
	if opts.Parallel && opts.MaxConcurrency > 1 {
		sessionOpts = append(sessionOpts, services.WithMaxConcurrency(opts.MaxConcurrency))
	}
	session := services.NewSession(uc.evaluator, uc.units, sessionOpts...)

	start := time.Now()
	done := make(chan *validation.Report, 1)
	go func() {
		done <- session.Validate(aspect, instance)
	}()

	select {
	case report := <-done:
		return report, time.Since(start), nil
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("validation aborted: %w", ctx.Err())
	}
}

func (uc *ValidateInstanceUseCase) recordLoadFailure(stage string) {
	if uc.metrics != nil {
		uc.metrics.RecordLoadFailure(stage)
	}
}
