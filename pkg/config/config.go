// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"csv2ddi/pkg/util"

	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Defaults for the DDI platform connection
const (
	DefaultURL        = "https://csp.infoblox.com"
	DefaultAPIVersion = "v1"
	DefaultTimeout    = 30 * time.Second
	DefaultPageSize   = 1000
)

// ErrInvalid marks configuration that failed validation
var ErrInvalid = errors.New("invalid configuration")

// Config holds the credentials and connection settings for the DDI platform
type Config struct {
	URL        string        `yaml:"url" validate:"required,url"`
	APIVersion string        `yaml:"api_version" validate:"required"`
	APIKey     string        `yaml:"api_key" validate:"required"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
	PageSize   int           `yaml:"page_size" validate:"gte=0,lte=10000"`
	LogLevel   string        `yaml:"log_level" validate:"omitempty,oneof=trace debug verbose info warn error"`
	TLS        TLSConfig     `yaml:"tls"`
}

// TLSConfig customises server certificate verification
type TLSConfig struct {
	CA         string `yaml:"ca" validate:"omitempty,file"`
	SkipVerify bool   `yaml:"skip_verify"`
}

// setConfigDefaults fills unset fields
func setConfigDefaults(cfg *Config) {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	cfg.URL = strings.TrimSuffix(cfg.URL, "/")
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
}

// resolveSecrets expands file:// and env:// references in credential fields
func resolveSecrets(cfg *Config) error {
	for _, field := range []*string{&cfg.URL, &cfg.APIKey} {
		value, err := util.ReadSecretValue(*field)
		if err != nil {
			return err
		}
		*field = value
	}
	return nil
}

// Validate checks the configuration for missing or malformed values
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.Wrap(err, "validating configuration")
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		problems = append(problems, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Namespace()), fe.Tag()))
	}
	return errors.WithHint(
		errors.Mark(errors.Newf("%s: %s", ErrInvalid, strings.Join(problems, "; ")), ErrInvalid),
		"the credentials file needs at least url and api_key")
}

// BaseURL returns the REST root for DDI endpoints, e.g. https://csp.infoblox.com/api/ddi/v1
func (c *Config) BaseURL() string {
	return fmt.Sprintf("%s/api/ddi/%s", c.URL, c.APIVersion)
}

// String renders the config with the API key masked
func (c *Config) String() string {
	return fmt.Sprintf("url=%s api_version=%s api_key=%s timeout=%s page_size=%d",
		c.URL, c.APIVersion, util.MaskSensitiveValue(c.APIKey), c.Timeout, c.PageSize)
}
