package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound indicates no config file was found in the standard search locations.
var ErrConfigNotFound = errors.New("configuration file not found")

// PathEnv names the variable that points at an explicit config file.
const PathEnv = "LLMPORT_CONFIG"

// LoadRawConfigWithPath loads the raw config on top of Defaults and returns
// the file it came from. An explicit path, or one set through PathEnv, must
// exist. Without one the standard locations are searched, and when none of
// them has a file the defaults are returned with an empty path.
func LoadRawConfigWithPath(explicitPath string) (*RawConfig, string, error) {
	configPath := explicitPath
	if configPath == "" {
		configPath = os.Getenv(PathEnv)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if os.IsNotExist(err) {
				return nil, "", fmt.Errorf("specified config file does not exist: %s", configPath)
			}
			return nil, "", fmt.Errorf("cannot access config file %s: %w", configPath, err)
		}
	} else {
		found, err := findConfigFile()
		if errors.Is(err, ErrConfigNotFound) {
			return Defaults(), "", nil
		}
		if err != nil {
			return nil, "", err
		}
		configPath = found
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open config file %s: %w", configPath, err)
	}
	defer file.Close()

	cfg, err := loadRawConfigFromFile(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	return cfg, configPath, nil
}

// findConfigFile searches the current directory, then the user config directory.
func findConfigFile() (string, error) {
	configNames := []string{"llmport.yaml", "llmport.yml"}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, name := range configNames {
			path := filepath.Join(userConfigDir, "llmport", name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", ErrConfigNotFound
}

// loadRawConfigFromFile reads and parses a configuration file. The format
// is chosen from the file name reported by Stat.
func loadRawConfigFromFile(file fs.File) (*RawConfig, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("error getting file info: %w", err)
	}
	return parseConfigData(data, stat.Name())
}

// parseConfigData parses config data on top of Defaults. Environment
// variables are expanded in the raw content before parsing, supporting both
// $VAR and ${VAR} syntax.
func parseConfigData(data []byte, filename string) (*RawConfig, error) {
	expanded := []byte(os.ExpandEnv(string(data)))

	addExpansionHint := func(parseErr error) error {
		if strings.Contains(string(data), "$") {
			return fmt.Errorf("%w (hint: environment variable expansion may have introduced invalid syntax if values contain special characters)", parseErr)
		}
		return parseErr
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		cfg := Defaults()
		if err := json.Unmarshal(expanded, cfg); err != nil {
			return nil, addExpansionHint(fmt.Errorf("error parsing JSON config: %w", err))
		}
		return cfg, nil
	case ".yaml", ".yml":
		cfg := Defaults()
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, addExpansionHint(fmt.Errorf("error parsing YAML config: %w", err))
		}
		return cfg, nil
	default:
		yamlCfg := Defaults()
		yamlErr := yaml.Unmarshal(expanded, yamlCfg)
		if yamlErr == nil {
			return yamlCfg, nil
		}
		jsonCfg := Defaults()
		jsonErr := json.Unmarshal(expanded, jsonCfg)
		if jsonErr == nil {
			return jsonCfg, nil
		}
		return nil, addExpansionHint(fmt.Errorf("failed to parse config file: YAML error: %v, JSON error: %v", yamlErr, jsonErr))
	}
}
