// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	json "github.com/goccy/go-json"
)

// Plan is the immutable output of resolution: the single consistent set of
// effective parameters for one install invocation. It is computed once,
// never mutated, and is the sole input to the solve/link engine.
type Plan struct {
	RootPrefix              string          `json:"root_prefix"`
	TargetPrefix            string          `json:"target_prefix"`
	EnvName                 string          `json:"env_name"`
	Specs                   []string        `json:"specs"`
	Channels                []string        `json:"channels"`
	ChannelPriority         ChannelPriority `json:"channel_priority"`
	TargetPrefixChecks      PrefixChecks    `json:"target_prefix_checks"`
	UseTargetPrefixFallback bool            `json:"use_target_prefix_fallback"`

	// ChannelAlias and Explicit are consumed by the engine but are not
	// part of the machine-readable plan record.
	ChannelAlias string `json:"-"`
	Explicit     bool   `json:"-"`
}

// MarshalJSON serializes the plan as the machine-readable record printed
// by --print-config-only. Specs is always a list; an empty channel list is
// null, meaning "use the configured default channel".
func (p *Plan) MarshalJSON() ([]byte, error) {
	type alias Plan

	out := alias(*p)
	if out.Specs == nil {
		out.Specs = []string{}
	}
	if len(out.Channels) == 0 {
		out.Channels = nil
	}

	return json.Marshal(out)
}
