package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	configContents, err := afero.ReadFile(fs, filepath.Join(path, ConfigurationName))
	if err != nil {
		return nil, err
	}
	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Initialize writes the default configuration into dir. An existing
// configuration is never overwritten.
func Initialize(fs afero.Fs, dir string, logger *log.Logger) (string, error) {
	configPath := filepath.Join(dir, ConfigurationName)

	exists, err := afero.Exists(fs, configPath)
	switch {
	case err != nil:
		return "", err
	case exists:
		return "", fmt.Errorf("%s already exists", configPath)
	}

	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	logger.Printf("Writing %s\n", configPath)
	if err := afero.WriteFile(fs, configPath, defaultConfigData, 0644); err != nil {
		return "", err
	}

	return configPath, nil
}
