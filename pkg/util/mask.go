// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package util

import (
	"fmt"
	"strings"
)

// MaskSensitiveValue masks a sensitive string value for safe logging.
// It keeps a few characters at each end and stars out the middle.
// Strings shorter than 6 characters become "[REDACTED]".
func MaskSensitiveValue(value string) string {
	if value == "" {
		return ""
	}

	if len(value) < 6 {
		return "[REDACTED]"
	}

	visiblePrefix := 2
	visibleSuffix := 2
	if len(value) > 12 {
		visiblePrefix = 3
		visibleSuffix = 3
	}

	prefix := value[:visiblePrefix]
	suffix := value[len(value)-visibleSuffix:]
	masked := strings.Repeat("*", len(value)-visiblePrefix-visibleSuffix)

	return fmt.Sprintf("%s%s%s", prefix, masked, suffix)
}

// IsSensitiveKey determines if a configuration key likely holds a credential
func IsSensitiveKey(key string) bool {
	sensitiveKeywords := []string{
		"password", "pass", "secret", "key", "token", "auth", "cred",
	}

	lowerKey := strings.ToLower(key)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			if keyword == "auth" && strings.Contains(lowerKey, "author") {
				continue
			}
			return true
		}
	}
	return false
}

// MaskSensitiveOptions creates a copy of an options map with sensitive values masked
func MaskSensitiveOptions(options map[string]string) map[string]string {
	if options == nil {
		return nil
	}

	masked := make(map[string]string, len(options))
	for k, v := range options {
		if IsSensitiveKey(k) {
			masked[k] = MaskSensitiveValue(v)
		} else {
			masked[k] = v
		}
	}
	return masked
}
