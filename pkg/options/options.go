// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package options maps DHCP option columns of a subnet row onto platform option codes
package options

import (
	"csv2ddi/pkg/csvfile"

	"regexp"
	"strconv"
)

// Named option columns and the DHCP option code each one carries
var namedOptions = []struct {
	Column string
	Code   int
}{
	{"domain_name", 15},
	{"domain_name_servers", 6},
	{"routers", 3},
}

// optionColumnRegex matches OPTION-DHCP-<n> with no leading zeros. Anything after the
// number must start with a non-digit, e.g. "OPTION-DHCP-42 (ntp)".
var optionColumnRegex = regexp.MustCompile(`^OPTION-DHCP-(0|[1-9]\d{0,2})(?:\D|$)`)

// CodeTable maps numeric option codes to platform identifiers
type CodeTable interface {
	OptionCode(code int) (string, bool)
}

// Option is one entry of a subnet's dhcp_options list
type Option struct {
	Type        string `json:"type"`
	OptionCode  string `json:"option_code"`
	OptionValue string `json:"option_value"`
}

// Result is the mapped option list plus the codes that had no platform identifier
type Result struct {
	Options []Option
	Skipped []int
}

// ColumnCode extracts the option number from an OPTION-DHCP-<n> column name.
// Only 0 through 255 are accepted, written without leading zeros.
func ColumnCode(column string) (int, bool) {
	m := optionColumnRegex.FindStringSubmatch(column)
	if m == nil {
		return 0, false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil || code > 255 {
		return 0, false
	}
	return code, true
}

// Map builds the ordered option list for row. Named options come first, then
// numbered columns in header order; a repeated code overrides the value in place.
// Empty values are dropped and codes missing from table are reported in Skipped.
func Map(row csvfile.Row, columns []string, table CodeTable) Result {
	type entry struct {
		code  int
		value string
	}
	var ordered []entry
	position := make(map[int]int)
	set := func(code int, value string) {
		if i, ok := position[code]; ok {
			ordered[i].value = value
			return
		}
		position[code] = len(ordered)
		ordered = append(ordered, entry{code: code, value: value})
	}

	for _, named := range namedOptions {
		set(named.Code, row.Get(named.Column))
	}
	for _, column := range columns {
		if code, ok := ColumnCode(column); ok {
			set(code, row.Get(column))
		}
	}

	var result Result
	for _, e := range ordered {
		if e.value == "" {
			continue
		}
		id, ok := table.OptionCode(e.code)
		if !ok {
			result.Skipped = append(result.Skipped, e.code)
			continue
		}
		result.Options = append(result.Options, Option{Type: "option", OptionCode: id, OptionValue: e.value})
	}
	return result
}
