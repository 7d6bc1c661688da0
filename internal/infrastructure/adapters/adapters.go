// Package adapters provides infrastructure adapters that implement application ports.
// These adapters wrap existing infrastructure components to satisfy port interfaces.
package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/application/ports"
	infraconfig "github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/config"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/metrics"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/system"
	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/infrastructure/units"
)

// Ensure adapters implement ports at compile time
var (
	_ ports.ModelLoader          = (*infraconfig.ModelLoader)(nil)
	_ ports.InstanceLoader       = (*infraconfig.InstanceLoader)(nil)
	_ ports.UnitCatalog          = (*units.Catalog)(nil)
	_ ports.SystemConfigProvider = (*SystemConfigAdapter)(nil)
	_ ports.MetricsRecorder      = (*metrics.Recorder)(nil)
)

// DefaultConfigPath returns ~/.esmf/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".esmf", "config.yaml"), nil
}

// SystemConfigAdapter adapts system config loader to port interface.
type SystemConfigAdapter struct {
	loader *system.ConfigLoader
}

// NewSystemConfigAdapter creates a new system config adapter.
func NewSystemConfigAdapter() *SystemConfigAdapter {
	return &SystemConfigAdapter{
		loader: system.NewConfigLoader(),
	}
}

// LoadConfig loads system configuration from path.
func (a *SystemConfigAdapter) LoadConfig(_ context.Context, path string) (*system.Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	return a.loader.Load(path)
}

// UnitCatalogFromConfig loads the configured unit catalog (or the embedded
// one) and applies symbol overrides.
func UnitCatalogFromConfig(cfg *system.Config) (*units.Catalog, error) {
	catalog, err := units.Load(cfg.Units.Catalog)
	if err != nil {
		return nil, err
	}
	if err := catalog.Override(cfg.Units.Symbols); err != nil {
		return nil, fmt.Errorf("invalid unit override: %w", err)
	}
	return catalog, nil
}
