package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/dto"
	apperrors "github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/errors"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/ports"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/repositories"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/services"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

const ns = "urn:samm:org.example.movement:1.0.0#"

// MockModelLoader is a mock implementation of ports.ModelLoader
type MockModelLoader struct {
	mock.Mock
}

func (m *MockModelLoader) LoadModel(path string) (*metamodel.Graph, error) {
	args := m.Called(path)
	graph, _ := args.Get(0).(*metamodel.Graph)
	return graph, args.Error(1)
}

// MockInstanceLoader is a mock implementation of ports.InstanceLoader
type MockInstanceLoader struct {
	mock.Mock
}

func (m *MockInstanceLoader) LoadInstance(path string) (map[string]any, error) {
	args := m.Called(path)
	instance, _ := args.Get(0).(map[string]any)
	return instance, args.Error(1)
}

// MockRepository is a mock implementation of repositories.ReportRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, record *validation.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id values.ReportID) (*validation.Record, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*validation.Record)
	return rec, args.Error(1)
}

func (m *MockRepository) FindByModel(ctx context.Context, model string, limit int) ([]*validation.Record, error) {
	args := m.Called(ctx, model, limit)
	recs, _ := args.Get(0).([]*validation.Record)
	return recs, args.Error(1)
}

func (m *MockRepository) FindBetween(ctx context.Context, model string, start, end time.Time) ([]*validation.Record, error) {
	args := m.Called(ctx, model, start, end)
	recs, _ := args.Get(0).([]*validation.Record)
	return recs, args.Error(1)
}

type fakeMetrics struct {
	mu           sync.Mutex
	runs         []values.Status
	loadFailures []string
}

func (f *fakeMetrics) RecordValidation(_ string, report *validation.Report, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, report.Status)
}

func (f *fakeMetrics) RecordLoadFailure(stage string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadFailures = append(f.loadFailures, stage)
}

// vehicleGraph builds an aspect with one pattern-constrained property.
func vehicleGraph(t *testing.T) *metamodel.Graph {
	t.Helper()
	aspectURN := values.MustParseAspectModelURN(ns + "Vehicle")
	plateURN := values.MustParseAspectModelURN(ns + "plate")

	pattern, err := metamodel.NewConstraint(
		metamodel.MustNewMetaClass(metamodel.ModelClassConstraint, ns+"PlatePattern"),
		metamodel.OnProperty(plateURN),
		metamodel.PatternRule{Pattern: `^[A-Z]{2}-[0-9]{4}$`},
		nil,
	)
	require.NoError(t, err)

	plate, err := metamodel.NewConstraintProperty[map[string]any, any](metamodel.PropertySpec{
		Meta:           metamodel.MustNewMetaClass(metamodel.ModelClassProperty, plateURN.String()),
		ContainingType: aspectURN,
		DataType:       values.DataTypeString,
	}, []*metamodel.Constraint{pattern}, nil)
	require.NoError(t, err)

	aspect, err := metamodel.NewAspect(metamodel.MustNewMetaClass(metamodel.ModelClassAspect, aspectURN.String()), plate)
	require.NoError(t, err)

	graph := metamodel.NewGraph()
	require.NoError(t, graph.RegisterContainer(aspect))
	return graph
}

func newUseCase(models *MockModelLoader, instances *MockInstanceLoader, repo *MockRepository, metrics *fakeMetrics) *ValidateInstanceUseCase {
	var (
		r repositories.ReportRepository
		m ports.MetricsRecorder
	)
	if repo != nil {
		r = repo
	}
	if metrics != nil {
		m = metrics
	}
	return NewValidateInstanceUseCase(models, instances, services.StaticUnits{}, nil, r, m, nil)
}

func TestValidateInstance_StoresRecord(t *testing.T) {
	models, instances, repo, metrics := new(MockModelLoader), new(MockInstanceLoader), new(MockRepository), &fakeMetrics{}
	models.On("LoadModel", "model.yaml").Return(vehicleGraph(t), nil).Once()
	instances.On("LoadInstance", "instance.json").Return(map[string]any{"plate": "ab-1"}, nil).Once()
	repo.On("Save", mock.Anything, mock.AnythingOfType("*validation.Record")).Return(nil).Once()

	uc := newUseCase(models, instances, repo, metrics)
	resp, err := uc.Execute(context.Background(), dto.ValidateRequest{
		ModelPath:    "model.yaml",
		InstancePath: "instance.json",
		Metadata:     dto.RequestMetadata{RequestID: "req-1"},
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Record)
	assert.False(t, resp.Record.ID.IsZero())
	assert.Equal(t, ns+"Vehicle", resp.Record.ModelURN())
	assert.Equal(t, values.StatusFail, resp.Record.Report.Status)
	require.Len(t, resp.Record.Report.Diagnostics, 1)
	assert.Equal(t, validation.CodePatternMismatch, resp.Record.Report.Diagnostics[0].Code)
	assert.Len(t, resp.Fingerprint, 16)
	assert.Equal(t, "req-1", resp.Metadata.RequestID)
	assert.Equal(t, []values.Status{values.StatusFail}, metrics.runs)

	models.AssertExpectations(t)
	instances.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestValidateInstance_SameInputSameFingerprint(t *testing.T) {
	models, instances, repo := new(MockModelLoader), new(MockInstanceLoader), new(MockRepository)
	graph := vehicleGraph(t)
	models.On("LoadModel", mock.Anything).Return(graph, nil)
	instances.On("LoadInstance", mock.Anything).Return(map[string]any{"plate": "AB-1234"}, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	uc := newUseCase(models, instances, repo, nil)
	req := dto.ValidateRequest{ModelPath: "m", InstancePath: "i"}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	req.Options = dto.ValidateOptions{Parallel: true, MaxConcurrency: 4}
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, first.Record.Report.Passed())
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.False(t, first.Record.ID.Equals(second.Record.ID))
}

func TestValidateInstance_InvariantViolationIsConstructionError(t *testing.T) {
	models, instances, metrics := new(MockModelLoader), new(MockInstanceLoader), &fakeMetrics{}
	inv := &metamodel.InvariantError{Element: ns + "speed", Rule: metamodel.RuleDuplicateURN}
	models.On("LoadModel", "bad.yaml").Return(nil, inv)

	uc := newUseCase(models, instances, nil, metrics)
	_, err := uc.Execute(context.Background(), dto.ValidateRequest{ModelPath: "bad.yaml"})
	require.Error(t, err)

	var ce *apperrors.ConstructionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, metamodel.RuleDuplicateURN, ce.Rule)
	assert.ErrorIs(t, err, inv)
	assert.Equal(t, []string{stageModel}, metrics.loadFailures)
	instances.AssertNotCalled(t, "LoadInstance", mock.Anything)
}

func TestValidateInstance_LoadErrorsAreValidationErrors(t *testing.T) {
	t.Run("model", func(t *testing.T) {
		models := new(MockModelLoader)
		models.On("LoadModel", mock.Anything).Return(nil, errors.New("schema violation"))

		_, err := newUseCase(models, new(MockInstanceLoader), nil, nil).
			Execute(context.Background(), dto.ValidateRequest{ModelPath: "m"})
		var ve *apperrors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "model", ve.Field)
	})

	t.Run("instance", func(t *testing.T) {
		models, instances, metrics := new(MockModelLoader), new(MockInstanceLoader), &fakeMetrics{}
		models.On("LoadModel", mock.Anything).Return(vehicleGraph(t), nil)
		instances.On("LoadInstance", mock.Anything).Return(nil, errors.New("unexpected EOF"))

		_, err := newUseCase(models, instances, nil, metrics).
			Execute(context.Background(), dto.ValidateRequest{ModelPath: "m", InstancePath: "i"})
		var ve *apperrors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "instance", ve.Field)
		assert.Equal(t, []string{stageInstance}, metrics.loadFailures)
	})

	t.Run("unknown aspect", func(t *testing.T) {
		models := new(MockModelLoader)
		models.On("LoadModel", mock.Anything).Return(vehicleGraph(t), nil)

		_, err := newUseCase(models, new(MockInstanceLoader), nil, nil).
			Execute(context.Background(), dto.ValidateRequest{ModelPath: "m", AspectName: "Movement"})
		var ve *apperrors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "aspect", ve.Field)
	})
}

func TestValidateInstance_PicksAspectByName(t *testing.T) {
	models, instances := new(MockModelLoader), new(MockInstanceLoader)
	models.On("LoadModel", mock.Anything).Return(vehicleGraph(t), nil)
	instances.On("LoadInstance", mock.Anything).Return(map[string]any{"plate": "AB-1234"}, nil)

	resp, err := newUseCase(models, instances, nil, nil).
		Execute(context.Background(), dto.ValidateRequest{AspectName: "Vehicle"})
	require.NoError(t, err)
	assert.True(t, resp.Record.Report.Passed())
}

func TestValidateInstance_CanceledContext(t *testing.T) {
	models, instances := new(MockModelLoader), new(MockInstanceLoader)
	models.On("LoadModel", mock.Anything).Return(vehicleGraph(t), nil)
	instances.On("LoadInstance", mock.Anything).Return(map[string]any{"plate": "AB-1234"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newUseCase(models, instances, nil, nil).Execute(ctx, dto.ValidateRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateInstance_RepositoryFailure(t *testing.T) {
	models, instances, repo := new(MockModelLoader), new(MockInstanceLoader), new(MockRepository)
	models.On("LoadModel", mock.Anything).Return(vehicleGraph(t), nil)
	instances.On("LoadInstance", mock.Anything).Return(map[string]any{"plate": "AB-1234"}, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := newUseCase(models, instances, repo, nil).Execute(context.Background(), dto.ValidateRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store report")
}

type valueDropper struct{ calls int }

func (v *valueDropper) RedactReport(report *validation.Report) {
	v.calls++
	for i := range report.Diagnostics {
		report.Diagnostics[i].Value = "***"
	}
}

func TestValidateInstance_RedactsBeforeStoring(t *testing.T) {
	models, instances, repo := new(MockModelLoader), new(MockInstanceLoader), new(MockRepository)
	models.On("LoadModel", "model.yaml").Return(vehicleGraph(t), nil).Once()
	instances.On("LoadInstance", "instance.json").Return(map[string]any{"plate": "ab-1"}, nil).Once()
	repo.On("Save", mock.Anything, mock.MatchedBy(func(r *validation.Record) bool {
		return len(r.Report.Diagnostics) == 1 && r.Report.Diagnostics[0].Value == "***"
	})).Return(nil).Once()

	redactor := &valueDropper{}
	uc := newUseCase(models, instances, repo, nil).WithRedactor(redactor)
	resp, err := uc.Execute(context.Background(), dto.ValidateRequest{
		ModelPath:    "model.yaml",
		InstancePath: "instance.json",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, redactor.calls)
	assert.Equal(t, "***", resp.Record.Report.Diagnostics[0].Value)
	repo.AssertExpectations(t)
}
