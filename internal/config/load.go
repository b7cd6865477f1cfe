package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

// Load reads a YAML configuration file, expands $(ENV_VAR)
// placeholders, and lays the result over the defaults. Unknown keys
// are collected as warnings rather than failing the load, so a config
// written for a newer version still runs.
func Load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := []byte(expandEnvVars(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	return &cfg, unknownKeys(expanded), nil
}

// unknownKeys runs a strict decode pass purely to surface keys the
// schema does not know about.
func unknownKeys(data []byte) []string {
	var probe Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&probe)
	if err == nil {
		return nil
	}

	var typeErr *yaml.TypeError
	if !errors.As(err, &typeErr) {
		return nil
	}

	var warnings []string
	for _, msg := range typeErr.Errors {
		if strings.Contains(msg, "not found in type") {
			warnings = append(warnings, msg)
		}
	}
	return warnings
}
