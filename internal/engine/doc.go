// SPDX-License-Identifier: MPL-2.0

// Package engine defines the boundary to the solve/link stage.
//
// The resolver hands a finished installation plan to an Engine and takes
// the result back unchanged; solving dependency graphs, downloading
// packages, and linking files into a prefix live behind this interface.
// The dry-run engine included here enforces the plan's prefix-validity
// checks and the install-time validation of explicit entries, then
// reports the actions it would have taken.
package engine
