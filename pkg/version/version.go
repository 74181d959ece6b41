// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package version provides version information for csv2ddi
package version

import "fmt"

var (
	// Version is the current version of the application, set at build time
	Version = "development"

	// BuildTime is when the application was built
	BuildTime = "unknown"
)

// String returns a string representation of the version information
func String() string {
	return fmt.Sprintf("%s (built on %s)", Version, BuildTime)
}

// Short returns the bare version for banners and user agents
func Short() string {
	return Version
}
