// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"os"

	"marmot-cli/internal/config"
	"marmot-cli/pkg/specfile"
)

// Environment variable names recognized by the resolver, kept
// conda/mamba-compatible so existing shells keep working.
const (
	EnvRootPrefix        = "MAMBA_ROOT_PREFIX"
	EnvDefaultRootPrefix = "MAMBA_DEFAULT_ROOT_PREFIX"
	EnvTargetPrefix      = "MAMBA_TARGET_PREFIX"
	EnvActivePrefix      = "CONDA_PREFIX"
	EnvChannels          = "CONDA_CHANNELS"
)

type (
	// CLIOptions carries the already-parsed flag values of one install
	// invocation. Zero values mean the flag was not given.
	CLIOptions struct {
		Specs                 []string
		Prefix                string
		Name                  string
		RootPrefix            string
		Channels              []string
		ChannelPriority       string
		NoChannelPriority     bool
		StrictChannelPriority bool
		ChannelAlias          string
	}

	// Environment is the snapshot of the recognized environment variables,
	// captured once at invocation time.
	Environment struct {
		RootPrefix        string
		DefaultRootPrefix string
		TargetPrefix      string
		ActivePrefix      string
		Channels          string
	}

	// Inputs is the raw material of one invocation: CLI values, the
	// environment snapshot, the loaded rc file, and the parsed spec files
	// in argument order.
	Inputs struct {
		CLI   CLIOptions
		Env   Environment
		RC    *config.RC
		Files []*specfile.File

		// DefaultRootPrefix is the built-in root prefix location, used
		// when no other tier supplies one.
		DefaultRootPrefix string
	}

	// Request is the aggregated, pre-resolution value set: for each
	// parameter, the candidates gathered from every source that supplied
	// one. No precedence decision has been made yet.
	Request struct {
		RootPrefix   Candidates[string]
		TargetPath   Candidates[string]
		TargetName   Candidates[string]
		ChannelAlias Candidates[string]

		// Specs and Channels are list-valued; all supplying tiers are
		// kept rather than overridden.
		Specs    []ConfigValue[[]string]
		Channels []ConfigValue[[]string]

		// ChannelPriority combines the rc value with the three CLI
		// mechanisms, which interact beyond plain override semantics.
		ChannelPriority channelPriorityRequest

		// FallbackPrefix is the currently active environment, usable as
		// the install target when nothing else disambiguates.
		FallbackPrefix string

		// Explicit reports that the spec files make this an explicit
		// install (URL+hash list, no dependency solving).
		Explicit bool
	}

	channelPriorityRequest struct {
		ExplicitValue string // --channel-priority, "" if not given
		NoSwitch      bool   // --no-channel-priority
		StrictSwitch  bool   // --strict-channel-priority
		RCValue       string // rc-file channel_priority, "" if not set
	}
)

// CaptureEnvironment reads the recognized environment variables once.
func CaptureEnvironment() Environment {
	return Environment{
		RootPrefix:        os.Getenv(EnvRootPrefix),
		DefaultRootPrefix: os.Getenv(EnvDefaultRootPrefix),
		TargetPrefix:      os.Getenv(EnvTargetPrefix),
		ActivePrefix:      os.Getenv(EnvActivePrefix),
		Channels:          os.Getenv(EnvChannels),
	}
}

// Aggregate collects a candidate from each source that provides one,
// without resolving precedence. The only failure mode is an inconsistent
// spec-file combination.
func Aggregate(in Inputs) (*Request, error) {
	combined, err := specfile.Combine(in.Files)
	if err != nil {
		return nil, err
	}

	req := &Request{
		FallbackPrefix: in.Env.ActivePrefix,
		Explicit:       combined.Explicit,
	}

	// Root prefix: CLI > env var > default override > built-in default.
	if in.CLI.RootPrefix != "" {
		req.RootPrefix = append(req.RootPrefix, ConfigValue[string]{Value: in.CLI.RootPrefix, Tier: TierCLI})
	}
	if in.Env.RootPrefix != "" {
		req.RootPrefix = append(req.RootPrefix, ConfigValue[string]{Value: in.Env.RootPrefix, Tier: TierEnv})
	}
	switch {
	case in.Env.DefaultRootPrefix != "":
		req.RootPrefix = append(req.RootPrefix, ConfigValue[string]{Value: in.Env.DefaultRootPrefix, Tier: TierDefault})
	case in.DefaultRootPrefix != "":
		req.RootPrefix = append(req.RootPrefix, ConfigValue[string]{Value: in.DefaultRootPrefix, Tier: TierDefault})
	}

	// Target evidence, kept per class; mutual exclusion is the target
	// state machine's call, not aggregation's.
	if in.CLI.Prefix != "" {
		req.TargetPath = append(req.TargetPath, ConfigValue[string]{Value: in.CLI.Prefix, Tier: TierCLI})
	}
	if in.Env.TargetPrefix != "" {
		req.TargetPath = append(req.TargetPath, ConfigValue[string]{Value: in.Env.TargetPrefix, Tier: TierEnv})
	}
	if in.CLI.Name != "" {
		req.TargetName = append(req.TargetName, ConfigValue[string]{Value: in.CLI.Name, Tier: TierCLI})
	}
	if combined.EnvName != "" {
		req.TargetName = append(req.TargetName, ConfigValue[string]{Value: combined.EnvName, Tier: TierSpecFile})
	}

	// Specs: CLI bare specs and per-file lists.
	if len(in.CLI.Specs) > 0 {
		req.Specs = append(req.Specs, ConfigValue[[]string]{Value: in.CLI.Specs, Tier: TierCLI})
	}
	if len(combined.Specs) > 0 {
		req.Specs = append(req.Specs, ConfigValue[[]string]{Value: combined.Specs, Tier: TierSpecFile})
	}

	// Channels: every supplying tier is kept. The env var is a single
	// aggregate token, not a separated list.
	if len(in.CLI.Channels) > 0 {
		req.Channels = append(req.Channels, ConfigValue[[]string]{Value: in.CLI.Channels, Tier: TierCLI})
	}
	if len(combined.Channels) > 0 {
		req.Channels = append(req.Channels, ConfigValue[[]string]{Value: combined.Channels, Tier: TierSpecFile})
	}
	if in.Env.Channels != "" {
		req.Channels = append(req.Channels, ConfigValue[[]string]{Value: []string{in.Env.Channels}, Tier: TierEnv})
	}
	if in.RC != nil && len(in.RC.Channels) > 0 {
		req.Channels = append(req.Channels, ConfigValue[[]string]{Value: in.RC.Channels, Tier: TierRCFile})
	}

	// Channel priority mechanisms.
	req.ChannelPriority = channelPriorityRequest{
		ExplicitValue: in.CLI.ChannelPriority,
		NoSwitch:      in.CLI.NoChannelPriority,
		StrictSwitch:  in.CLI.StrictChannelPriority,
	}
	if in.RC != nil {
		req.ChannelPriority.RCValue = in.RC.ChannelPriority
	}

	// Channel alias.
	if in.CLI.ChannelAlias != "" {
		req.ChannelAlias = append(req.ChannelAlias, ConfigValue[string]{Value: in.CLI.ChannelAlias, Tier: TierCLI})
	}
	if in.RC != nil && in.RC.ChannelAlias != "" {
		req.ChannelAlias = append(req.ChannelAlias, ConfigValue[string]{Value: in.RC.ChannelAlias, Tier: TierRCFile})
	}

	return req, nil
}
