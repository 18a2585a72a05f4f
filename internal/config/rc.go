// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"marmot-cli/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "marmot"
	// RCFileName is the rc file name looked up in the home directory.
	RCFileName = ".marmotrc"
	// RCConfigName is the rc file name looked up under the config directory.
	RCConfigName = "rc.yaml"
)

//go:embed rc_schema.cue
var rcSchema string

// RC holds the values understood from the run-control file. All fields are
// optional; zero values mean the rc file did not supply the key.
type RC struct {
	Channels        []string `mapstructure:"channels"`
	ChannelAlias    string   `mapstructure:"channel_alias"`
	ChannelPriority string   `mapstructure:"channel_priority"`
}

// LoadOptions defines explicit rc loading inputs.
type LoadOptions struct {
	// RCFilePath forces loading from a specific rc file when set.
	RCFilePath string
	// NoRC skips rc loading entirely; Load returns an empty RC.
	NoRC bool
}

// Provider loads the rc file from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*RC, error)
}

type fileProvider struct{}

// NewProvider creates an rc file provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads the rc file from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*RC, error) {
	rc, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return rc, nil
}

// DefaultRootPrefix returns the built-in root prefix location (~/.marmot),
// used when neither -r nor a root-prefix environment variable is set.
func DefaultRootPrefix() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "."+AppName), nil
}

// loadWithOptions performs option-driven rc loading. It returns the loaded
// RC and the resolved file path ("" when no rc file was found or loading
// was disabled).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*RC, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load rc canceled: %w", ctx.Err())
	default:
	}

	if opts.NoRC {
		return &RC{}, "", nil
	}

	v := viper.New()
	v.SetConfigType("yaml")

	resolvedPath := ""

	// If a custom rc file path is set via --rc-file, use it exclusively.
	if opts.RCFilePath != "" {
		if !fileExists(opts.RCFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load rc file").
				WithResource(opts.RCFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use --no-rc to skip rc loading").
				Wrap(fmt.Errorf("rc file not found: %s", opts.RCFilePath)).
				BuildError()
		}
		resolvedPath = opts.RCFilePath
	} else {
		resolvedPath = findDefaultRCFile()
	}

	if resolvedPath == "" {
		// No rc file anywhere is not an error; the rc tier is simply absent.
		return &RC{}, "", nil
	}

	if err := loadYAMLIntoViper(v, resolvedPath); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("load rc file").
			WithResource(resolvedPath).
			WithSuggestion("Check that the file contains valid YAML").
			WithSuggestion("Remove keys other than channels, channel_alias, channel_priority").
			WithSuggestion("Use --no-rc to skip rc loading").
			Wrap(err).
			BuildError()
	}

	var rc RC
	if err := v.Unmarshal(&rc); err != nil {
		return nil, "", fmt.Errorf("failed to parse rc file: %w", err)
	}

	return &rc, resolvedPath, nil
}

// findDefaultRCFile checks the default rc locations and returns the first
// existing one, or "".
func findDefaultRCFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, RCFileName)
		if fileExists(homePath) {
			return homePath
		}
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}

	xdgPath := filepath.Join(configDir, AppName, RCConfigName)
	if fileExists(xdgPath) {
		return xdgPath
	}

	return ""
}

// loadYAMLIntoViper reads a YAML rc file, validates it against the #RC
// schema, and merges its contents into Viper.
func loadYAMLIntoViper(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read rc file: %w", err)
	}
	defer f.Close()

	if err := v.ReadConfig(f); err != nil {
		return fmt.Errorf("failed to parse rc file: %w", err)
	}

	cuectx := cuecontext.New()

	schemaValue := cuectx.CompileString(rcSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile rc schema: %w", schemaValue.Err())
	}

	userValue := cuectx.Encode(v.AllSettings())
	if userValue.Err() != nil {
		return fmt.Errorf("failed to encode rc values: %w", userValue.Err())
	}

	// Unify with the #RC definition; definitions are closed, so unknown
	// keys and wrongly-typed values both fail here.
	schema := schemaValue.LookupPath(cue.ParsePath("#RC"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("rc file does not match schema: %w", err)
	}

	return nil
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
