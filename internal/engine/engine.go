// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"marmot-cli/internal/resolve"

	"github.com/charmbracelet/log"
)

// NothingToDoMessage is reported when the plan requires no work.
const NothingToDoMessage = "Nothing to do."

var (
	// ErrPrefixCheckFailed is returned when the target prefix violates the
	// plan's prefix-validity checks.
	ErrPrefixCheckFailed = errors.New("target prefix check failed")
	// ErrInvalidExplicitSpec is returned when an explicit entry turns out
	// malformed at install time.
	ErrInvalidExplicitSpec = errors.New("invalid explicit spec")
)

type (
	// Engine consumes an installation plan. Implementations own all
	// solving, downloading, and linking; their errors pass through the
	// resolver unchanged.
	Engine interface {
		Install(ctx context.Context, plan *resolve.Plan) (*Result, error)
	}

	// Result is the outcome of handing a plan to the engine.
	Result struct {
		Success bool    `json:"success"`
		DryRun  bool    `json:"dry_run"`
		Prefix  string  `json:"prefix"`
		Message string  `json:"message,omitempty"`
		Actions Actions `json:"actions,omitempty"`
	}

	// Actions lists what the engine did (or would do, for a dry run).
	Actions struct {
		Link   []LinkAction `json:"LINK,omitempty"`
		Prefix string       `json:"PREFIX,omitempty"`
	}

	// LinkAction describes one package to link into the prefix.
	LinkAction struct {
		Name    string `json:"name"`
		Version string `json:"version,omitempty"`
		Build   string `json:"build_string,omitempty"`
		Channel string `json:"channel,omitempty"`
		URL     string `json:"url,omitempty"`
	}

	// Options configures the dry-run engine.
	Options struct {
		// NoDefaultChannel disables substituting the default channel when
		// the plan's channel list is empty.
		NoDefaultChannel bool
	}

	dryRunEngine struct {
		opts Options
	}
)

// NewDryRun creates an engine that validates the plan and reports the
// actions it would take without touching the prefix.
func NewDryRun(opts Options) Engine {
	return &dryRunEngine{opts: opts}
}

// Install validates the plan against the filesystem and fabricates the
// link actions of a dry run.
func (e *dryRunEngine) Install(ctx context.Context, plan *resolve.Plan) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("install canceled: %w", ctx.Err())
	default:
	}

	if len(plan.Specs) == 0 {
		return &Result{Success: true, DryRun: true, Prefix: plan.TargetPrefix, Message: NothingToDoMessage}, nil
	}

	if err := checkTargetPrefix(plan); err != nil {
		return nil, err
	}

	if plan.Explicit {
		if err := validateExplicitSpecs(plan.Specs); err != nil {
			return nil, err
		}
	}

	channels := plan.Channels
	if len(channels) == 0 && !e.opts.NoDefaultChannel {
		channels = []string{plan.ChannelAlias + "/conda-forge"}
	}
	log.Debug("dry-run install", "prefix", plan.TargetPrefix, "specs", len(plan.Specs), "channels", channels)

	links := make([]LinkAction, 0, len(plan.Specs))
	for _, spec := range plan.Specs {
		if plan.Explicit {
			links = append(links, linkFromExplicit(spec))
		} else {
			links = append(links, LinkAction{Name: specName(spec)})
		}
	}

	return &Result{
		Success: true,
		DryRun:  true,
		Prefix:  plan.TargetPrefix,
		Actions: Actions{Link: links, Prefix: plan.TargetPrefix},
	}, nil
}

// checkTargetPrefix enforces the plan's prefix-validity bitset against the
// filesystem.
func checkTargetPrefix(plan *resolve.Plan) error {
	checks := plan.TargetPrefixChecks
	info, err := os.Stat(plan.TargetPrefix)
	exists := err == nil && info.IsDir()

	if exists && checks&resolve.AllowExistingPrefix == 0 {
		return fmt.Errorf("%w: prefix %s already exists", ErrPrefixCheckFailed, plan.TargetPrefix)
	}
	if !exists {
		if checks&resolve.ExpectExistingPrefix != 0 {
			return fmt.Errorf("%w: prefix %s does not exist", ErrPrefixCheckFailed, plan.TargetPrefix)
		}
		if checks&resolve.AllowMissingPrefix == 0 {
			return fmt.Errorf("%w: prefix %s is missing", ErrPrefixCheckFailed, plan.TargetPrefix)
		}
	}
	if exists && checks&resolve.AllowNotEnvPrefix == 0 && !isEnvPrefix(plan) {
		return fmt.Errorf("%w: prefix %s is not an environment", ErrPrefixCheckFailed, plan.TargetPrefix)
	}

	return nil
}

// isEnvPrefix reports whether the target prefix looks like an environment:
// the base environment, a directory under envs/, or a prefix carrying
// conda metadata.
func isEnvPrefix(plan *resolve.Plan) bool {
	prefix := filepath.Clean(plan.TargetPrefix)
	if prefix == filepath.Clean(plan.RootPrefix) {
		return true
	}
	if filepath.Base(filepath.Dir(prefix)) == resolve.EnvsDirName {
		return true
	}
	info, err := os.Stat(filepath.Join(prefix, "conda-meta"))
	return err == nil && info.IsDir()
}

// validateExplicitSpecs is the install-time gate for explicit entries: a
// single malformed entry invalidates the whole install.
func validateExplicitSpecs(specs []string) error {
	for _, spec := range specs {
		ref, err := url.Parse(spec)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidExplicitSpec, spec)
		}
		if ref.Fragment == "" {
			return fmt.Errorf("%w: %q has no content hash", ErrInvalidExplicitSpec, spec)
		}
	}
	return nil
}

// linkFromExplicit derives a link action from a package URL such as
// https://conda.anaconda.org/conda-forge/linux-64/xtensor-0.21.5-hc9558a2_0.tar.bz2#d330e…
func linkFromExplicit(spec string) LinkAction {
	link := LinkAction{URL: spec}

	ref, err := url.Parse(spec)
	if err != nil {
		return link
	}

	file := path.Base(ref.Path)
	for _, suffix := range []string{".tar.bz2", ".conda"} {
		file = strings.TrimSuffix(file, suffix)
	}

	// <name>-<version>-<build>; the name itself may contain dashes.
	parts := strings.Split(file, "-")
	if len(parts) >= 3 {
		link.Name = strings.Join(parts[:len(parts)-2], "-")
		link.Version = parts[len(parts)-2]
		link.Build = parts[len(parts)-1]
	} else {
		link.Name = file
	}

	// Channel is the URL up to the platform directory.
	if dir := path.Dir(ref.Path); dir != "/" && dir != "." {
		link.Channel = ref.Scheme + "://" + ref.Host + path.Dir(dir)
	}

	return link
}

// specName extracts the package name from a requirement string such as
// "xtensor >0.20" or "xtensor>=0.20,<0.22".
func specName(spec string) string {
	trimmed := strings.TrimSpace(spec)
	if i := strings.IndexAny(trimmed, " <>=!~"); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
