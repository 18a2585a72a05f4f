// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that include remediation steps and
// Markdown-formatted guidance for the failures marmot diagnoses before
// touching a prefix: missing or malformed spec files, ambiguous target
// specifications, and contradictory channel-priority flags.
package issue
