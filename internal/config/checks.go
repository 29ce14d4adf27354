package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coprime/wait-for-vercel-preview/internal/errors"
)

// ChecksFile maps project names to the path that should be probed for that
// project instead of the global check path. Projects absent from the map keep
// the global path.
type ChecksFile struct {
	Projects map[string]string `yaml:"projects"`
}

// PathFor returns the check path for the named project, falling back to the
// given path when the project has no override. Safe to call on a nil receiver.
func (f *ChecksFile) PathFor(project, fallback string) string {
	if f == nil {
		return fallback
	}
	if path, ok := f.Projects[project]; ok && path != "" {
		return path
	}
	return fallback
}

// LoadChecksFile reads per-project check paths from a YAML file.
// Returns an error if the file cannot be read or parsed.
func LoadChecksFile(path string) (*ChecksFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the step configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrChecksFileMissing, path)
		}
		return nil, fmt.Errorf("%w: %w", errors.ErrChecksFileParse, err)
	}

	var file ChecksFile
	if parseErr := yaml.Unmarshal(data, &file); parseErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrChecksFileParse, path, parseErr)
	}

	return &file, nil
}
