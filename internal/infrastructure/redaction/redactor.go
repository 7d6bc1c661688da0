// Package redaction scrubs secrets from the instance values that validation
// reports echo back.
package redaction

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/validation"
)

const redacted = "[REDACTED]"

// Redactor handles sanitization of sensitive data.
// All fields are read-only after construction, making it safe for concurrent use.
type Redactor struct {
	patterns []*regexp.Regexp
	paths    []string
	hashMode bool
	salt     string

	// nil falls back to regex patterns only
	gitleaksDetector *detect.Detector
}

// Config holds the configuration for the Redactor.
type Config struct {
	// Custom patterns to redact (e.g. "INT-[A-Z0-9]{16}")
	Patterns []string
	// Instance paths whose values are always redacted (e.g. "driver.licence").
	// A bare name matches that property at any depth.
	Paths []string
	// If true, replace with hash instead of [REDACTED]
	HashMode bool
	// Salt for hashing. If empty, hash is deterministic but unsalted.
	Salt string
	// If true, disable gitleaks detector and use only custom patterns
	DisableGitleaks bool
}

// New creates a new Redactor with the given configuration.
func New(cfg Config) (*Redactor, error) {
	r := &Redactor{
		paths:    cfg.Paths,
		hashMode: cfg.HashMode,
		salt:     cfg.Salt,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)+len(defaultPatterns)),
	}

	if !cfg.DisableGitleaks {
		detector, err := newGitleaksDetector()
		if err == nil {
			r.gitleaksDetector = detector
		}
	}

	for _, p := range defaultPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile default pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile custom pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	return r, nil
}

// newGitleaksDetector creates a new gitleaks detector with default configuration.
func newGitleaksDetector() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("failed to read gitleaks config: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gitleaks config: %w", err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("failed to translate gitleaks config: %w", err)
	}

	return detect.NewDetector(cfg), nil
}

// RedactReport rewrites the values, params and messages of every diagnostic
// in place. Diagnostics whose path matches a configured path lose their value
// entirely; all others have secrets scrubbed from their strings.
func (r *Redactor) RedactReport(report *validation.Report) {
	for i := range report.Diagnostics {
		r.redactDiagnostic(&report.Diagnostics[i])
	}
}

func (r *Redactor) redactDiagnostic(d *validation.Diagnostic) {
	templated := d.Message == d.Render()
	if r.isPathMatch(d.Path) {
		if d.Value != nil {
			d.Value = r.replacement(fmt.Sprint(d.Value))
		}
		if v, ok := d.Params["value"]; ok {
			d.Params["value"] = r.replacement(v)
		}
	} else {
		d.Value = r.Redact(d.Value)
		for k, v := range d.Params {
			d.Params[k] = r.ScrubString(v)
		}
	}
	if templated {
		d.Message = d.Render()
	}
	d.Message = r.ScrubString(d.Message)
}

// Redact sanitizes the given data structure in place.
// Supported types: string, []any and map[string]any.
func (r *Redactor) Redact(data any) any {
	return r.walk(data, "")
}

// ScrubString replaces sensitive patterns in a string.
// Uses gitleaks detector first, then the regex patterns.
func (r *Redactor) ScrubString(input string) string {
	if input == "" {
		return ""
	}

	result := input

	if r.gitleaksDetector != nil {
		findings := r.gitleaksDetector.Detect(detect.Fragment{Raw: result})
		for _, finding := range findings {
			result = strings.ReplaceAll(result, finding.Secret, r.replacement(finding.Secret))
		}
	}

	for _, re := range r.patterns {
		result = re.ReplaceAllStringFunc(result, r.replacement)
	}

	return result
}

// walk recursively traverses the data structure.
// currentPath is the dot-notation path to the current element (e.g. "driver.licence").
func (r *Redactor) walk(data any, currentPath string) any {
	switch v := data.(type) {
	case string:
		if currentPath != "" && r.isPathMatch(currentPath) {
			return r.replacement(v)
		}
		return r.ScrubString(v)

	case map[string]any:
		for k, val := range v {
			nextPath := k
			if currentPath != "" {
				nextPath = currentPath + "." + k
			}
			v[k] = r.walk(val, nextPath)
		}
		return v

	case []any:
		// Elements share the collection's path.
		for i, val := range v {
			v[i] = r.walk(val, currentPath)
		}
		return v

	default:
		return v
	}
}

// isPathMatch checks if the current path matches any of the configured redact paths.
//
// Matching rules:
// - Exact match: path="driver.licence" matches "driver.licence"
// - Suffix match: path="licence" matches "owner.driver.licence"
// - Collection indices are ignored: "waypoints[2].note" matches "waypoints.note"
func (r *Redactor) isPathMatch(path string) bool {
	if path == "" || len(r.paths) == 0 {
		return false
	}
	path = stripIndices(path)
	for _, p := range r.paths {
		if p == path {
			return true
		}
		if strings.HasSuffix(path, "."+p) {
			return true
		}
	}
	return false
}

func stripIndices(path string) string {
	if !strings.Contains(path, "[") {
		return path
	}
	var b strings.Builder
	depth := 0
	for _, c := range path {
		switch {
		case c == '[':
			depth++
		case c == ']' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(c)
		}
	}
	return b.String()
}

func (r *Redactor) replacement(secret string) string {
	if r.hashMode {
		return r.hash(secret)
	}
	return redacted
}

// hash returns a truncated HMAC-SHA256 hash of the secret.
// Format: [hmac:a1b2c3d4e5f6g7h8]
//
// Security notes:
// - Uses HMAC-SHA256 with the configured salt as the key.
// - Truncation to 8 bytes (16 hex chars) still allows correlation.
// - Requires a high-entropy salt for security against offline brute-forcing.
func (r *Redactor) hash(secret string) string {
	mac := hmac.New(sha256.New, []byte(r.salt))
	mac.Write([]byte(secret))
	sum := mac.Sum(nil)

	return fmt.Sprintf("[hmac:%s]", hex.EncodeToString(sum)[:16])
}

// defaultPatterns contains regexes for common secrets.
var defaultPatterns = []string{
	// AWS Access Key ID
	`\b((?:AKIA|ABIA|ACCA|ASIA)[0-9A-Z]{16})\b`,
	// Generic Private Key Header
	`-----BEGIN [A-Z ]+ PRIVATE KEY-----`,
	// Github Token
	`gh[pousr]_[A-Za-z0-9_]{36,255}`,
	// Slack Token
	`xox[baprs]-([0-9a-zA-Z]{10,48})?`,
}
