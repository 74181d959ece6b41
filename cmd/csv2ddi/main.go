// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"csv2ddi/pkg/cli"

	"os"
)

func main() {
	os.Exit(cli.Execute())
}
