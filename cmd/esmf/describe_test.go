package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/metamodel"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/services"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/config"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/units"
)

func testdata(name string) string {
	return filepath.Join("..", "..", "internal", "infrastructure", "config", "testdata", name)
}

func TestLocalized(t *testing.T) {
	en := "movement"
	de := "Bewegung"
	var d metamodel.Described
	d.AddPreferredName(values.MustNewLocale("en"), &en)
	d.AddPreferredName(values.MustNewLocale("de"), &de)
	names := d.PreferredNames()

	tests := []struct {
		locale string
		want   string
	}{
		{"de", "Bewegung"},
		{"de-AT", "Bewegung"},
		{"fr", "movement"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			got, ok := localized(names, values.MustNewLocale(tt.locale))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	only := "nur Deutsch"
	var single metamodel.Described
	single.AddDescription(values.MustNewLocale("de"), &only)
	got, ok := localized(single.Descriptions(), values.MustNewLocale("ja"))
	require.True(t, ok)
	assert.Equal(t, only, got)

	_, ok = localized(metamodel.LangMap{}, values.MustNewLocale("en"))
	assert.False(t, ok)
}

func TestDescriber_Movement(t *testing.T) {
	graph, err := config.NewModelLoader().LoadModel(testdata("movement.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	d := &describer{
		w:      &buf,
		locale: values.MustNewLocale("de"),
		units:  services.StaticUnits{"kilometrePerHour": "km/h"},
	}
	d.container(graph.Aspects()[0], 0, map[string]bool{})
	require.NoError(t, d.err)

	out := buf.String()
	assert.Contains(t, out, "Aspect Movement (urn:samm:org.example.movement:1.0.0#Movement)\n")
	assert.Contains(t, out, "  name: Bewegung\n")
	assert.Contains(t, out, "  description: Aspect for movement information\n")
	assert.Contains(t, out, "  see: https://example.org/movement\n")
	assert.Contains(t, out, "  - speed: float [constraint-unit]\n")
	assert.Contains(t, out, "    unit: kilometrePerHour (km/h)\n")
	assert.Contains(t, out, "    constraint SpeedRange: range\n")
	assert.Contains(t, out, "  - vehicleId: string [constraint] (payload vehicle_id)\n")
	assert.Contains(t, out, "  - waypoints: entity [constraint-container] (optional)\n")
	assert.Contains(t, out, "    Entity SpatialPosition (urn:samm:org.example.movement:1.0.0#SpatialPosition)\n")
	assert.Contains(t, out, "      - altitude: float [plain] (optional)\n")
	assert.Contains(t, out, "WarningLevel [green yellow red]")
}

func TestListUnits(t *testing.T) {
	c, err := units.Embedded()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, listUnits(&buf, c))
	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Regexp(t, `kilometrePerHour\s+km/h\s+velocity`, out)
}
