// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// ChannelPriority is the policy arbitrating package availability across
// channels.
type ChannelPriority string

const (
	// ChannelPriorityDisabled ignores channel order entirely.
	ChannelPriorityDisabled ChannelPriority = "disabled"
	// ChannelPriorityFlexible prefers earlier channels but allows later
	// ones to satisfy requirements. This is the default.
	ChannelPriorityFlexible ChannelPriority = "flexible"
	// ChannelPriorityStrict only considers the first channel providing a
	// package.
	ChannelPriorityStrict ChannelPriority = "strict"
)

// DefaultChannelAlias is prepended to bare channel names when no alias is
// configured.
const DefaultChannelAlias = "https://conda.anaconda.org"

var (
	// ErrConflictingChannelPriority is returned when the channel-priority
	// flags disagree about the resulting mode.
	ErrConflictingChannelPriority = errors.New("conflicting channel priority")
	// ErrInvalidChannelPriority is returned when --channel-priority is
	// given a value outside {disabled, flexible, strict}.
	ErrInvalidChannelPriority = errors.New("invalid channel priority")
)

// resolveSpecs concatenates CLI-supplied bare specs followed by specs
// parsed from the spec files, in the order the files were given. CLI
// specs always come first regardless of file order.
func resolveSpecs(req *Request) []string {
	var specs []string
	for _, tier := range []Tier{TierCLI, TierSpecFile} {
		for _, cand := range req.Specs {
			if cand.Tier == tier {
				specs = append(specs, cand.Value...)
			}
		}
	}
	return specs
}

// resolveChannels builds the channel list by concatenation in priority
// order CLI, spec file, environment variable, rc file. Nothing is
// deduplicated; an empty result means the engine substitutes its default
// channel unless that was explicitly disabled.
func resolveChannels(req *Request) []string {
	var channels []string
	for _, tier := range []Tier{TierCLI, TierSpecFile, TierEnv, TierRCFile} {
		for _, cand := range req.Channels {
			if cand.Tier == tier {
				channels = append(channels, cand.Value...)
			}
		}
	}
	return channels
}

// resolveChannelPriority applies the three CLI mechanisms and the rc-file
// value. With no mechanism given anywhere the mode is flexible. A single
// mechanism wins outright; an explicit value combined with a boolean
// switch must agree on the resulting mode; the two boolean switches can
// never be combined.
func resolveChannelPriority(req *Request) (ChannelPriority, error) {
	cp := req.ChannelPriority

	var explicit ChannelPriority
	if cp.ExplicitValue != "" {
		explicit = ChannelPriority(cp.ExplicitValue)
		switch explicit {
		case ChannelPriorityDisabled, ChannelPriorityFlexible, ChannelPriorityStrict:
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidChannelPriority, cp.ExplicitValue)
		}
	}

	if cp.NoSwitch && cp.StrictSwitch {
		return "", fmt.Errorf("%w: --no-channel-priority and --strict-channel-priority cannot both hold", ErrConflictingChannelPriority)
	}
	if explicit != "" && cp.NoSwitch && explicit != ChannelPriorityDisabled {
		return "", fmt.Errorf("%w: --channel-priority %s contradicts --no-channel-priority", ErrConflictingChannelPriority, explicit)
	}
	if explicit != "" && cp.StrictSwitch && explicit != ChannelPriorityStrict {
		return "", fmt.Errorf("%w: --channel-priority %s contradicts --strict-channel-priority", ErrConflictingChannelPriority, explicit)
	}

	switch {
	case explicit != "":
		return explicit, nil
	case cp.NoSwitch:
		return ChannelPriorityDisabled, nil
	case cp.StrictSwitch:
		return ChannelPriorityStrict, nil
	}

	// No CLI mechanism; the rc file may still set a mode.
	if cp.RCValue != "" {
		rc := ChannelPriority(cp.RCValue)
		switch rc {
		case ChannelPriorityDisabled, ChannelPriorityFlexible, ChannelPriorityStrict:
			return rc, nil
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidChannelPriority, cp.RCValue)
		}
	}

	return ChannelPriorityFlexible, nil
}

// resolveRootPrefix is independent of target resolution: CLI -r overrides
// the environment variable, which overrides the built-in default location.
func resolveRootPrefix(req *Request) (string, error) {
	winner, ok, err := req.RootPrefix.Resolve()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("no root prefix available")
	}
	return winner.Value, nil
}

// resolveChannelAlias picks the channel alias by scalar precedence and
// trims a trailing slash so URL joining stays uniform.
func resolveChannelAlias(req *Request) (string, error) {
	winner, ok, err := req.ChannelAlias.Resolve()
	if err != nil {
		return "", err
	}
	if !ok {
		return DefaultChannelAlias, nil
	}
	return strings.TrimRight(winner.Value, "/"), nil
}
