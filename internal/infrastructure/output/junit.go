package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

// JUnitFormatter formats validation records as JUnit XML. Each diagnostic
// becomes a failing test case; a clean report yields a single passing case.
type JUnitFormatter struct {
	writer io.Writer
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer) *JUnitFormatter {
	return &JUnitFormatter{
		writer: w,
	}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// Format writes the record as JUnit XML.
func (f *JUnitFormatter) Format(record *validation.Record) error {
	report := record.Report
	if report == nil {
		return fmt.Errorf("record %s has no report", record.ID)
	}

	suite := JUnitTestSuite{
		Name:      report.ModelURN,
		Time:      record.Duration.Seconds(),
		Timestamp: record.CreatedAt.UTC().Format("2006-01-02T15:04:05"),
	}

	for _, d := range report.Diagnostics {
		c := JUnitTestCase{
			Name:      d.Path,
			ClassName: d.PropertyURN,
		}
		msg := d.Message
		if msg == "" {
			msg = d.Render()
		}

		switch d.Status {
		case values.StatusError:
			c.Error = &JUnitError{Message: msg, Type: string(d.Code), Content: formatDiagnostic(d)}
			suite.Errors++
		default:
			c.Failure = &JUnitFailure{Message: msg, Type: string(d.Code), Content: formatDiagnostic(d)}
			suite.Failures++
		}
		suite.TestCases = append(suite.TestCases, c)
	}

	if len(suite.TestCases) == 0 {
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      "instance",
			ClassName: report.ModelURN,
			Time:      record.Duration.Seconds(),
		})
	}
	suite.Tests = len(suite.TestCases)

	suites := JUnitTestSuites{
		Name:       "Aspect Model Validation",
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Errors:     suite.Errors,
		Time:       suite.Time,
		TestSuites: []JUnitTestSuite{suite},
	}

	_, err := f.writer.Write([]byte(xml.Header))
	if err != nil {
		return err
	}

	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}

	_, err = f.writer.Write([]byte("\n"))
	return err
}

func formatDiagnostic(d validation.Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Property: %s\n", d.PropertyURN)
	if d.ConstraintURN != "" {
		fmt.Fprintf(&b, "Constraint: %s\n", d.ConstraintURN)
	}
	if d.Value != nil {
		fmt.Fprintf(&b, "Value: %s\n", formatValue(d.Value))
	}
	return b.String()
}
