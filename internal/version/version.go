// Package version provides build version information for the esmf CLI.
package version

import (
	"runtime"

	"github.com/eclipse-esmf/esmf-sdk-sub002/internal/domain/values"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "dev"
	// Commit is the git commit hash (set by build flags)
	Commit = "unknown"
	// BuildDate is the build date (set by build flags)
	BuildDate = "unknown"
)

// MetaModelVersion is the SAMM meta model version model documents default to.
const MetaModelVersion = values.DefaultMetaModelVersion

// Info contains version and build information
type Info struct {
	Version          string `json:"version" yaml:"version"`
	Commit           string `json:"commit" yaml:"commit"`
	BuildDate        string `json:"build_date" yaml:"build_date"`
	MetaModelVersion string `json:"meta_model_version" yaml:"meta_model_version"`
	GoVersion        string `json:"go_version" yaml:"go_version"`
	Platform         string `json:"platform" yaml:"platform"`
}

// Get returns the version information
func Get() Info {
	return Info{
		Version:          Version,
		Commit:           Commit,
		BuildDate:        BuildDate,
		MetaModelVersion: MetaModelVersion,
		GoVersion:        runtime.Version(),
		Platform:         runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return i.Version
}

// Full returns a detailed version string with all build information
func (i Info) Full() string {
	return i.Version + " (" + i.Commit + ") built " + i.BuildDate + " " + i.GoVersion + " " + i.Platform +
		", meta model " + i.MetaModelVersion
}
