// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package util

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// ReadSecretValue resolves "file://<path>" and "env://<VAR>" references.
// Any other value is returned unchanged.
func ReadSecretValue(value string) (string, error) {
	switch {
	case strings.HasPrefix(value, "file://"):
		filePath := strings.TrimPrefix(value, "file://")
		content, err := os.ReadFile(filePath)
		if err != nil {
			return "", errors.Wrapf(err, "reading secret file %s", filePath)
		}
		return strings.TrimSpace(string(content)), nil

	case strings.HasPrefix(value, "env://"):
		envVar := strings.TrimPrefix(value, "env://")
		envValue, ok := os.LookupEnv(envVar)
		if !ok || envValue == "" {
			return "", errors.WithHint(
				errors.Newf("environment variable %s is not set", envVar),
				"export the variable or load it with --env-file")
		}
		return envValue, nil
	}

	return value, nil
}

// TrimQuotes strips one pair of matching single or double quotes around value
func TrimQuotes(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}
