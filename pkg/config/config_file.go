// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"csv2ddi/pkg/log"
	"csv2ddi/pkg/util"

	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// iniSection is the section the legacy credentials file keeps its keys in
const iniSection = "bloxone"

// SecretRegex matches environment variable references like ${ENV_VAR}
var SecretRegex = regexp.MustCompile(`\${([^}]+)}`)

var logger = log.NewScopedLogger("[config]", "")

// LoadConfigFile loads, defaults and validates a credentials file.
// Files ending in .yml or .yaml are YAML, anything else is read as INI.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "reading config file %s", path),
			"pass the credentials file with -c/--config")
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		logger.Debug("Loading YAML configuration from %s", path)
		cfg, err = parseYAML(data)
	default:
		logger.Debug("Loading INI configuration from %s", path)
		cfg, err = parseINI(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}

	if err := resolveSecrets(cfg); err != nil {
		return nil, errors.Wrapf(err, "resolving secrets in %s", path)
	}
	setConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Loaded configuration: %s", cfg)
	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	processed := processConfigFileSecrets(string(data))
	var cfg Config
	if err := yaml.Unmarshal([]byte(processed), &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}
	return &cfg, nil
}

// parseINI reads the legacy [BloxOne] credentials layout
func parseINI(data []byte) (*Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse INI")
	}

	section := file.Section("")
	if s, err := file.GetSection(iniSection); err == nil {
		section = s
	} else {
		logger.Debug("No [BloxOne] section found, using top-level keys")
	}

	values := make(map[string]string)
	for _, key := range section.Keys() {
		values[key.Name()] = util.TrimQuotes(key.String())
	}
	logger.Trace("INI keys: %v", util.MaskSensitiveOptions(values))

	cfg := &Config{
		URL:        values["url"],
		APIVersion: values["api_version"],
		APIKey:     values["api_key"],
		LogLevel:   values["log_level"],
	}
	cfg.TLS.CA = values["tls_ca"]
	cfg.TLS.SkipVerify = EnvValueToBool(values["tls_skip_verify"])

	if v := values["timeout"]; v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid timeout %q", v)
		}
		cfg.Timeout = timeout
	}
	if v := values["page_size"]; v != "" {
		pageSize, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid page_size %q", v)
		}
		cfg.PageSize = pageSize
	}
	return cfg, nil
}

// processConfigFileSecrets replaces ${ENV_VAR} references with their values.
// Unknown variables are left in place.
func processConfigFileSecrets(content string) string {
	return SecretRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}
