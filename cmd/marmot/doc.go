// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for marmot.
//
// This package implements the Cobra command hierarchy for the marmot CLI:
// the root command with the shared rc-file and root-prefix flags, and the
// install command that resolves an installation plan and hands it to the
// solve/link engine.
package cmd
