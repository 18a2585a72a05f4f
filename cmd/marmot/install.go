// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"marmot-cli/internal/config"
	"marmot-cli/internal/engine"
	"marmot-cli/internal/issue"
	"marmot-cli/internal/resolve"
	"marmot-cli/pkg/specfile"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// installOptions holds the install command's flag state.
type installOptions struct {
	name                  string
	prefix                string
	files                 []string
	channels              []string
	channelPriority       string
	noChannelPriority     bool
	strictChannelPriority bool
	channelAlias          string
	noDefaultChannel      bool
	printConfigOnly       bool
	jsonOut               bool
	dryRun                bool
	quiet                 bool
}

// newInstallCommand creates the `marmot install` command.
func newInstallCommand(root *rootOptions) *cobra.Command {
	opts := &installOptions{}

	installCmd := &cobra.Command{
		Use:   "install [specs...]",
		Short: "Install packages into an environment",
		Long: `Install packages into an environment.

The effective configuration is merged from CLI flags, environment
variables (MAMBA_ROOT_PREFIX, MAMBA_TARGET_PREFIX, CONDA_PREFIX,
CONDA_CHANNELS), the rc file, and any spec files, under a strict
precedence order. Ambiguous combinations - a prefix path together with
an environment name, multiple YAML environment descriptions,
contradictory channel-priority flags - fail before anything is touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, root, opts, args)
		},
	}

	installCmd.Flags().StringVarP(&opts.name, "name", "n", "", "name of the target environment")
	installCmd.Flags().StringVarP(&opts.prefix, "prefix", "p", "", "path of the target environment")
	installCmd.Flags().StringArrayVarP(&opts.files, "file", "f", nil, "spec file (classic, @EXPLICIT, or YAML environment description; repeatable)")
	installCmd.Flags().StringArrayVarP(&opts.channels, "channel", "c", nil, "channel to search for packages (repeatable)")
	installCmd.Flags().StringVar(&opts.channelPriority, "channel-priority", "", "channel priority mode: disabled, flexible, or strict")
	installCmd.Flags().BoolVar(&opts.noChannelPriority, "no-channel-priority", false, "disable channel priority")
	installCmd.Flags().BoolVar(&opts.strictChannelPriority, "strict-channel-priority", false, "enable strict channel priority")
	installCmd.Flags().StringVar(&opts.channelAlias, "channel-alias", "", "base URL prepended to bare channel names")
	installCmd.Flags().BoolVar(&opts.noDefaultChannel, "no-default-channel", false, "do not substitute the default channel when none is configured")
	installCmd.Flags().BoolVar(&opts.printConfigOnly, "print-config-only", false, "print the resolved installation plan as JSON and exit")
	installCmd.Flags().BoolVar(&opts.jsonOut, "json", false, "report the result as JSON")
	installCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "only report the actions that would be taken")
	installCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")

	return installCmd
}

// runInstall resolves the installation plan and either prints it
// (--print-config-only) or hands it to the engine.
func runInstall(cmd *cobra.Command, root *rootOptions, opts *installOptions, args []string) error {
	ctx := cmd.Context()

	rc, err := config.NewProvider().Load(ctx, config.LoadOptions{
		RCFilePath: root.rcFile,
		NoRC:       root.noRC,
	})
	if err != nil {
		return annotateError(cmd, root, err)
	}

	files := make([]*specfile.File, 0, len(opts.files))
	for _, path := range opts.files {
		f, err := specfile.Parse(path)
		if err != nil {
			return annotateError(cmd, root, err)
		}
		files = append(files, f)
	}

	// The built-in root prefix default is only needed when no other tier
	// supplies one; failure to determine it is deferred to resolution.
	defaultRoot, _ := config.DefaultRootPrefix()

	plan, err := resolve.Resolve(resolve.Inputs{
		CLI: resolve.CLIOptions{
			Specs:                 args,
			Prefix:                opts.prefix,
			Name:                  opts.name,
			RootPrefix:            root.rootPrefix,
			Channels:              opts.channels,
			ChannelPriority:       opts.channelPriority,
			NoChannelPriority:     opts.noChannelPriority,
			StrictChannelPriority: opts.strictChannelPriority,
			ChannelAlias:          opts.channelAlias,
		},
		Env:               resolve.CaptureEnvironment(),
		RC:                rc,
		Files:             files,
		DefaultRootPrefix: defaultRoot,
	})
	if err != nil {
		return annotateError(cmd, root, err)
	}

	if opts.printConfigOnly {
		return printJSON(cmd, plan)
	}

	// Install-time gate: explicit entries must be well-formed URL
	// references carrying a content hash.
	for _, f := range files {
		if err := f.Validate(); err != nil {
			return annotateError(cmd, root, err)
		}
	}

	result, err := engine.NewDryRun(engine.Options{NoDefaultChannel: opts.noDefaultChannel}).Install(ctx, plan)
	if err != nil {
		// Engine errors pass through unreinterpreted.
		return &ExitError{Code: 1, Err: err}
	}

	if opts.jsonOut {
		return printJSON(cmd, result)
	}

	return printResult(cmd, opts, result)
}

// printJSON serializes v as the machine-readable output of the command.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// printResult renders the engine result for humans.
func printResult(cmd *cobra.Command, opts *installOptions, result *engine.Result) error {
	out := cmd.OutOrStdout()

	if result.Message != "" {
		fmt.Fprintln(out, result.Message)
		return nil
	}

	if !opts.quiet {
		fmt.Fprintln(out, SubtitleStyle.Render(fmt.Sprintf("Transaction: %d packages into %s", len(result.Actions.Link), result.Prefix)))
	}
	for _, link := range result.Actions.Link {
		label := link.Name
		if link.Version != "" {
			label += "-" + link.Version
		}
		if link.Build != "" {
			label += "-" + link.Build
		}
		fmt.Fprintln(out, "Linking "+label)
	}

	if opts.dryRun && !opts.quiet {
		fmt.Fprintln(out, SubtitleStyle.Render("Dry run. Nothing was changed."))
	}

	return nil
}

// annotateError attaches remediation context to a resolution error and,
// in verbose mode, renders the matching issue documentation.
func annotateError(cmd *cobra.Command, root *rootOptions, err error) error {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		err = issue.NewErrorContext().
			WithOperation("resolve installation request").
			WithSuggestion("Run with --verbose for remediation details").
			Wrap(err).
			BuildError()
	}

	if root.verbose {
		fmt.Fprintln(cmd.ErrOrStderr(), formatErrorForDisplay(err, true))
		if id, ok := issueIdFor(err); ok {
			if doc, renderErr := issue.Get(id).Render("auto"); renderErr == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), doc)
			}
		}
	}

	return err
}

// issueIdFor maps resolution errors onto the issue catalog.
func issueIdFor(err error) (issue.Id, bool) {
	switch {
	case errors.Is(err, specfile.ErrFileNotFound):
		return issue.SpecFileNotFoundId, true
	case errors.Is(err, specfile.ErrFormat):
		return issue.SpecFileFormatErrorId, true
	case errors.Is(err, specfile.ErrConflictingFiles):
		return issue.ConflictingSpecFilesId, true
	case errors.Is(err, resolve.ErrConflictingTarget):
		return issue.ConflictingTargetId, true
	case errors.Is(err, resolve.ErrNoTarget):
		return issue.NoTargetId, true
	case errors.Is(err, resolve.ErrConflictingChannelPriority),
		errors.Is(err, resolve.ErrInvalidChannelPriority):
		return issue.ConflictingChannelPriorityId, true
	}
	return 0, false
}
