// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"path/filepath"
)

// BaseEnvName is the reserved name of the distinguished environment whose
// prefix equals the root prefix.
const BaseEnvName = "base"

// EnvsDirName is the directory under the root prefix holding named
// environments.
const EnvsDirName = "envs"

// PrefixChecks is the bitset of prefix-validity checks handed to the
// installer. A cleared allow bit means the condition is not allowed.
type PrefixChecks int

const (
	// AllowExistingPrefix permits installing into an existing prefix.
	AllowExistingPrefix PrefixChecks = 1 << iota
	// AllowMissingPrefix permits a prefix that does not exist yet.
	AllowMissingPrefix
	// AllowNotEnvPrefix permits a prefix that is not an environment.
	AllowNotEnvPrefix
	// ExpectExistingPrefix requires the prefix to already exist.
	ExpectExistingPrefix
)

// InstallPrefixChecks is the fixed check set for the install operation
// class: existing prefixes are allowed and expected, missing or
// non-environment prefixes are not. It is a sanity-check contract handed
// to the installer, not re-derived per target-resolution case.
const InstallPrefixChecks = AllowExistingPrefix | ExpectExistingPrefix

var (
	// ErrConflictingTarget is the sentinel error wrapped by
	// ConflictingTargetError.
	ErrConflictingTarget = errors.New("conflicting target specification")
	// ErrNoTarget is returned when no source specifies a target and no
	// environment is active to fall back to.
	ErrNoTarget = errors.New("no target environment specified")
)

type (
	// ConflictingTargetError reports that a path-class and a name-class
	// source were present simultaneously. It wraps ErrConflictingTarget
	// for errors.Is() compatibility.
	ConflictingTargetError struct {
		PathSource string
		NameSource string
	}

	// target is the outcome of target resolution.
	target struct {
		Prefix       string
		EnvName      string
		UsedFallback bool
	}
)

// Error returns the error message for ConflictingTargetError.
func (e *ConflictingTargetError) Error() string {
	return fmt.Sprintf("conflicting target specification: %s and %s given simultaneously", e.PathSource, e.NameSource)
}

// Unwrap returns ErrConflictingTarget so callers can use errors.Is.
func (e *ConflictingTargetError) Unwrap() error {
	return ErrConflictingTarget
}

// resolveTarget determines the target prefix from the partial evidence in
// the request. The rules, in order:
//
//  1. a path-class source (CLI -p, target-prefix env var) together with a
//     name-class source (CLI -n, YAML name) is ambiguous and fails, even
//     when both point at the same environment
//  2. with no source of either class and no active environment, there is
//     nothing to install into and resolution fails
//  3. exactly one class present: a name joins the root prefix with
//     envs/<name> (or is the root prefix itself for the reserved base
//     name); a path is used directly
//  4. no explicit source but an active environment: its prefix is the
//     target and the fallback marker is set
func resolveTarget(rootPrefix string, req *Request) (target, error) {
	pathPresent := len(req.TargetPath) > 0
	namePresent := len(req.TargetName) > 0

	if pathPresent && namePresent {
		return target{}, &ConflictingTargetError{
			PathSource: describeSource(req.TargetPath, "prefix path"),
			NameSource: describeSource(req.TargetName, "environment name"),
		}
	}

	switch {
	case namePresent:
		winner, _, err := req.TargetName.Resolve()
		if err != nil {
			return target{}, err
		}
		return target{
			Prefix:  prefixForName(rootPrefix, winner.Value),
			EnvName: winner.Value,
		}, nil

	case pathPresent:
		winner, _, err := req.TargetPath.Resolve()
		if err != nil {
			return target{}, err
		}
		return target{Prefix: filepath.Clean(winner.Value)}, nil

	case req.FallbackPrefix != "":
		return target{
			Prefix:       filepath.Clean(req.FallbackPrefix),
			UsedFallback: true,
		}, nil
	}

	return target{}, ErrNoTarget
}

// prefixForName maps an environment name onto its prefix under the root.
func prefixForName(rootPrefix, name string) string {
	if name == BaseEnvName {
		return filepath.Clean(rootPrefix)
	}
	return filepath.Join(rootPrefix, EnvsDirName, name)
}

// describeSource names the evidence tiers for error messages, e.g.
// "prefix path (cli, env)".
func describeSource(cands Candidates[string], kind string) string {
	desc := kind + " ("
	for i, cand := range cands {
		if i > 0 {
			desc += ", "
		}
		desc += cand.Tier.String()
	}
	return desc + ")"
}
