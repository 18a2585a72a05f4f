// SPDX-License-Identifier: MPL-2.0

// Package resolve turns the raw inputs of one `marmot install` invocation
// into a single immutable installation plan.
//
// Resolution happens in three phases over a Request value built once per
// invocation (no ambient global state):
//
//  1. aggregation: collect a candidate from every source that supplies a
//     value for each parameter, tagged with its origin tier, without
//     deciding precedence
//  2. precedence: per parameter, apply the documented precedence order
//     (CLI > environment > spec file > rc file > default), with the
//     list-valued channels parameter concatenating across tiers instead
//  3. target resolution: jointly determine root and target prefix from
//     path-class and name-class evidence, enforcing mutual exclusion and
//     fallback rules
//
// Any ambiguous or contradictory combination fails with a distinct error
// before a plan is produced; no partial plan is ever exposed.
package resolve
