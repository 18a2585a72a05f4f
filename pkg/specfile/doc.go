// SPDX-License-Identifier: MPL-2.0

// Package specfile parses the three spec-file formats accepted by
// `marmot install -f`:
//
//   - explicit: an @EXPLICIT sentinel followed by package URLs with
//     content-hash fragments, bypassing dependency solving
//   - classic: one free-form requirement string per line
//   - environment description: a YAML document with an optional name,
//     optional channels, and a required dependencies sequence
//
// Format detection is content-first (the @EXPLICIT sentinel), then
// extension-based (.yml/.yaml means environment description), then classic.
// Parsing is a pure read with no side effects; install-time validity of
// explicit entries is checked separately via File.Validate.
package specfile
