package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidateCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	t.Cleanup(func() { cfgFile = "" })

	cmd := newValidateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCmd_ValidInstance(t *testing.T) {
	out, err := runValidateCmd(t,
		testdata("movement.yaml"), testdata("movement.json"),
		"--format", "json", "--compact")
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	report := record["report"].(map[string]any)
	assert.Equal(t, "pass", report["status"])
	assert.Equal(t, "urn:samm:org.example.movement:1.0.0#Movement", report["model"])
}

func TestValidateCmd_InvalidInstance(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.sarif")
	metricsPath := filepath.Join(dir, "metrics.txt")

	_, err := runValidateCmd(t,
		testdata("movement.yaml"), testdata("movement_invalid.yaml"),
		"--format", "sarif", "-o", reportPath,
		"--parallel", "--max-concurrency", "4",
		"--metrics", metricsPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed: 5 failed, 0 errors")

	sarifData, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(sarifData), "range-violation")

	metricsData, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metricsData), "esmf_validation_runs_total")
}

func TestValidateCmd_Errors(t *testing.T) {
	t.Run("unknown format", func(t *testing.T) {
		_, err := runValidateCmd(t, testdata("movement.yaml"), testdata("movement.json"), "--format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})

	t.Run("missing model", func(t *testing.T) {
		_, err := runValidateCmd(t, testdata("nope.yaml"), testdata("movement.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load model")
	})

	t.Run("unknown aspect", func(t *testing.T) {
		_, err := runValidateCmd(t, testdata("movement.yaml"), testdata("movement.json"), "--aspect", "Braking")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no aspect named Braking")
	})

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := runValidateCmd(t, testdata("movement.yaml"))
		require.Error(t, err)
	})
}
