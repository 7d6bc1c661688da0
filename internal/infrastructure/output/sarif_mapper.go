package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

type sarifMapper struct {
	record    *validation.Record
	modelPath string
	cwd       string
}

func newSARIFMapper(record *validation.Record, modelPath string) *sarifMapper {
	cwd, _ := os.Getwd() // Best effort, ignore error
	return &sarifMapper{
		record:    record,
		modelPath: modelPath,
		cwd:       cwd,
	}
}

// mapToRun populates the SARIF run with rules, results, artifacts, and invocations.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addArtifacts(run)
	m.addInvocation(run)
	m.addProperties(run)
}

// addRules registers one rule per diagnostic code in order of first use.
func (m *sarifMapper) addRules(run *sarif.Run) {
	seen := make(map[validation.Code]bool)
	for _, d := range m.record.Report.Diagnostics {
		if seen[d.Code] {
			continue
		}
		seen[d.Code] = true

		id := string(d.Code)
		rule := sarif.NewReportingDescriptor().WithID(id)
		rule.WithName(id)

		short := d.Code.Template()
		rule.WithShortDescription(&sarif.MultiformatMessageString{
			Text: &short,
		})
		rule.WithFullDescription(&sarif.MultiformatMessageString{
			Text: &short,
		})

		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: m.mapStatusToLevel(d.Status),
		})

		run.Tool.Driver.AddRule(rule)
	}
}

// addResults converts diagnostics to SARIF results.
func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, d := range m.record.Report.Diagnostics {
		run.AddResult(m.mapDiagnostic(d))
	}
}

func (m *sarifMapper) mapDiagnostic(d validation.Diagnostic) *sarif.Result {
	result := sarif.NewRuleResult(string(d.Code))
	result.Level = m.mapStatusToLevel(d.Status)
	result.Kind = "fail"

	msg := d.Message
	if msg == "" {
		msg = d.Render()
	}
	result.Message = sarif.NewTextMessage(msg)

	if loc := m.location(); loc != nil {
		result.Locations = []*sarif.Location{loc}
	}

	props := sarif.NewPropertyBag()
	props.Add("path", d.Path)
	props.Add("property", d.PropertyURN)
	props.Add("status", string(d.Status))
	if d.ConstraintURN != "" {
		props.Add("constraint", d.ConstraintURN)
	}
	if d.Value != nil {
		props.Add("value", formatValue(d.Value))
	}
	if len(d.Params) > 0 {
		props.Add("params", d.Params)
	}
	result.WithProperties(props)

	return result
}

// mapStatusToLevel maps data violations to "error" and undecidable
// evaluations to "warning".
func (m *sarifMapper) mapStatusToLevel(status values.Status) string {
	switch status {
	case values.StatusFail:
		return "error"
	case values.StatusError:
		return "warning"
	default:
		return "note"
	}
}

func (m *sarifMapper) location() *sarif.Location {
	if m.modelPath == "" {
		return nil
	}
	pLoc := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.modelPath)))
	return sarif.NewLocation().WithPhysicalLocation(pLoc)
}

// normalizeURI converts a file path to a SARIF-compliant URI.
func (m *sarifMapper) normalizeURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path) // Fallback to original
	}

	// Try to make relative to CWD
	if m.cwd != "" {
		if rel, err := filepath.Rel(m.cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	return "file://" + filepath.ToSlash(abs)
}

// addArtifacts registers the model file once.
func (m *sarifMapper) addArtifacts(run *sarif.Run) {
	if m.modelPath == "" || len(m.record.Report.Diagnostics) == 0 {
		return
	}
	artifact := sarif.NewArtifact().
		WithLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.modelPath)))

	props := sarif.NewPropertyBag()
	props.Add("model", m.record.Report.ModelURN)
	artifact.WithProperties(props)

	run.AddArtifact(artifact)
}

// addInvocation adds execution metadata to the run.
func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()

	invocation.ExecutionSuccessful = ptrBool(len(m.record.Report.Errors()) == 0)

	startTime := m.record.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z")
	endTime := m.record.CreatedAt.Add(m.record.Duration).UTC().Format("2006-01-02T15:04:05.000Z")
	invocation.StartTimeUtc = &startTime
	invocation.EndTimeUtc = &endTime

	if m.cwd != "" {
		cwd := "file://" + filepath.ToSlash(m.cwd)
		invocation.WorkingDirectory = sarif.NewArtifactLocation().WithURI(cwd)
	}

	props := sarif.NewPropertyBag()
	props.Add("reportId", m.record.ID.String())
	props.Add("model", m.record.Report.ModelURN)
	props.Add("status", string(m.record.Report.Status))
	if fp, err := m.record.Report.Fingerprint(); err == nil {
		props.Add("fingerprint", fp)
	}
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

// addProperties adds summary statistics to run properties.
func (m *sarifMapper) addProperties(run *sarif.Run) {
	props := sarif.NewPropertyBag()
	props.Add("summary", m.record.Report.Summary)
	run.WithProperties(props)
}

func ptrBool(b bool) *bool {
	return &b
}
