// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package builder

import (
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Tags is the tag set attached to every created object
type Tags map[string]interface{}

// ParseTags reads a JSON or YAML mapping. An empty value yields an empty set.
func ParseTags(value string) (Tags, error) {
	tags := Tags{}
	if strings.TrimSpace(value) == "" {
		return tags, nil
	}
	if err := yaml.Unmarshal([]byte(value), &tags); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "parsing --tags"),
			`pass a mapping, e.g. --tags '{"source":"nios"}'`)
	}
	if tags == nil {
		tags = Tags{}
	}
	return tags, nil
}
