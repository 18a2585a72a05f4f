// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "marmot-cli/cmd/marmot"
)

func main() {
	cmd.Execute()
}
