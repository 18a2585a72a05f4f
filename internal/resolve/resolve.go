// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"github.com/charmbracelet/log"
)

// Resolve computes the installation plan for one invocation. It fails on
// the first ambiguous or contradictory combination; when it returns an
// error no plan exists and nothing has been touched.
func Resolve(in Inputs) (*Plan, error) {
	req, err := Aggregate(in)
	if err != nil {
		return nil, err
	}

	rootPrefix, err := resolveRootPrefix(req)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved root prefix", "root_prefix", rootPrefix)

	tgt, err := resolveTarget(rootPrefix, req)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved target prefix",
		"target_prefix", tgt.Prefix,
		"env_name", tgt.EnvName,
		"fallback", tgt.UsedFallback)

	channelPriority, err := resolveChannelPriority(req)
	if err != nil {
		return nil, err
	}

	channelAlias, err := resolveChannelAlias(req)
	if err != nil {
		return nil, err
	}

	specs := resolveSpecs(req)
	channels := resolveChannels(req)
	log.Debug("resolved request",
		"specs", len(specs),
		"channels", channels,
		"channel_priority", channelPriority)

	return &Plan{
		RootPrefix:              rootPrefix,
		TargetPrefix:            tgt.Prefix,
		EnvName:                 tgt.EnvName,
		Specs:                   specs,
		Channels:                channels,
		ChannelPriority:         channelPriority,
		TargetPrefixChecks:      InstallPrefixChecks,
		UseTargetPrefixFallback: tgt.UsedFallback,
		ChannelAlias:            channelAlias,
		Explicit:                req.Explicit,
	}, nil
}
