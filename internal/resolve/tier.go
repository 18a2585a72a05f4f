// SPDX-License-Identifier: MPL-2.0

package resolve

import "fmt"

// Tier indicates where a configuration value came from. Higher tiers win
// for scalar parameters.
type Tier int

// Configuration source tiers, in increasing precedence.
const (
	// TierDefault indicates the value is a built-in default.
	TierDefault Tier = iota

	// TierRCFile indicates the value came from the run-control file.
	TierRCFile

	// TierSpecFile indicates the value came from a spec file.
	TierSpecFile

	// TierEnv indicates the value came from an environment variable.
	TierEnv

	// TierCLI indicates the value was set via command-line flag.
	TierCLI
)

// String returns the tier name used in logs and error messages.
func (t Tier) String() string {
	switch t {
	case TierDefault:
		return "default"
	case TierRCFile:
		return "rc-file"
	case TierSpecFile:
		return "spec-file"
	case TierEnv:
		return "env"
	case TierCLI:
		return "cli"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ConfigValue pairs a parameter value with its origin tier.
type ConfigValue[T any] struct {
	Value T
	Tier  Tier
}

// Candidates is the list of values supplied for one parameter, one entry
// per source that provided it. Absence of a tier is distinct from an
// explicit empty value at that tier.
type Candidates[T comparable] []ConfigValue[T]

// ConflictError reports two equally authoritative sources disagreeing on
// a scalar parameter.
type ConflictError[T comparable] struct {
	Tier Tier
	A, B T
}

// Error returns the error message for ConflictError.
func (e *ConflictError[T]) Error() string {
	return fmt.Sprintf("conflicting %s values: %v vs %v", e.Tier, e.A, e.B)
}

// Resolve applies override semantics: the candidate from the highest tier
// wins. Two candidates on the same winning tier with different values are
// a genuine conflict, not an expected override, and fail.
func (c Candidates[T]) Resolve() (ConfigValue[T], bool, error) {
	if len(c) == 0 {
		var zero ConfigValue[T]
		return zero, false, nil
	}

	winner := c[0]
	for _, cand := range c[1:] {
		if cand.Tier > winner.Tier {
			winner = cand
		}
	}

	// A disagreement below the winning tier is an expected override, not
	// a conflict; only equally authoritative disagreement fails.
	for _, cand := range c {
		if cand.Tier == winner.Tier && cand.Value != winner.Value {
			return ConfigValue[T]{}, false, &ConflictError[T]{Tier: cand.Tier, A: winner.Value, B: cand.Value}
		}
	}

	return winner, true, nil
}
