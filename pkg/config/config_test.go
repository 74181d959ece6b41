// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFileINI(t *testing.T) {
	path := writeFile(t, "b1config.ini", `[BloxOne]
url = 'https://csp.example.com/'
api_version = 'v1'
api_key = '0123456789abcdef'
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://csp.example.com", cfg.URL)
	assert.Equal(t, "v1", cfg.APIVersion)
	assert.Equal(t, "0123456789abcdef", cfg.APIKey)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, "https://csp.example.com/api/ddi/v1", cfg.BaseURL())
}

func TestLoadConfigFileINIWithoutSection(t *testing.T) {
	path := writeFile(t, "plain.ini", "api_key = abcdefghijkl\ntimeout = 5s\npage_size = 50\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, cfg.URL)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 50, cfg.PageSize)
}

func TestLoadConfigFileYAML(t *testing.T) {
	t.Setenv("CSV2DDI_TEST_API_KEY", "key-from-environment")
	path := writeFile(t, "csv2ddi.yml", `url: https://csp.example.com
api_key: ${CSV2DDI_TEST_API_KEY}
timeout: 10s
log_level: debug
tls:
  skip_verify: true
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "key-from-environment", cfg.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.TLS.SkipVerify)
}

func TestLoadConfigFileSecretReference(t *testing.T) {
	t.Setenv("CSV2DDI_TEST_SECRET", "secret-from-env-ref")
	path := writeFile(t, "creds.ini", "[BloxOne]\napi_key = env://CSV2DDI_TEST_SECRET\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env-ref", cfg.APIKey)
}

func TestLoadConfigFileMissingKey(t *testing.T) {
	path := writeFile(t, "nokey.ini", "[BloxOne]\nurl = https://csp.example.com\n")

	_, err := LoadConfigFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "apikey")
}

func TestLoadConfigFileBadURL(t *testing.T) {
	path := writeFile(t, "badurl.yaml", "url: not a url\napi_key: abcdefgh\n")

	_, err := LoadConfigFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.ini"))
	assert.Error(t, err)
}

func TestConfigStringMasksKey(t *testing.T) {
	cfg := &Config{URL: DefaultURL, APIVersion: "v1", APIKey: "0123456789abcdef"}
	assert.NotContains(t, cfg.String(), "0123456789abcdef")
	assert.Contains(t, cfg.String(), "012**********def")
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CSV2DDI_TEST_BOOL", "yes")
	assert.True(t, EnvToBool("CSV2DDI_TEST_BOOL", false))
	assert.True(t, EnvToBool("CSV2DDI_TEST_UNSET_BOOL", true))
	assert.Equal(t, "fallback", EnvToString("CSV2DDI_TEST_UNSET_STRING", "fallback"))
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, ".env", "CSV2DDI_TEST_DOTENV=loaded\n")
	t.Cleanup(func() { os.Unsetenv("CSV2DDI_TEST_DOTENV") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv("CSV2DDI_TEST_DOTENV"))
	assert.NoError(t, LoadEnvFile(""))
	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
