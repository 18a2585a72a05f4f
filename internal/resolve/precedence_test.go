// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"reflect"
	"testing"

	"marmot-cli/internal/config"
	"marmot-cli/pkg/specfile"
)

func classicFile(path string, specs ...string) *specfile.File {
	return &specfile.File{Path: path, Format: specfile.FormatClassic, Specs: specs}
}

func TestResolveSpecsConcatenation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       Inputs
		expected []string
	}{
		{
			name:     "cli only",
			in:       Inputs{CLI: CLIOptions{Specs: []string{"xframe", "xtl"}}},
			expected: []string{"xframe", "xtl"},
		},
		{
			name:     "file only",
			in:       Inputs{Files: []*specfile.File{classicFile("a.txt", "xtensor >0.20", "xsimd")}},
			expected: []string{"xtensor >0.20", "xsimd"},
		},
		{
			name: "cli specs first, file order preserved",
			in: Inputs{
				CLI:   CLIOptions{Specs: []string{"xframe", "xtl"}},
				Files: []*specfile.File{classicFile("a.txt", "xtensor >0.20", "xsimd")},
			},
			expected: []string{"xframe", "xtl", "xtensor >0.20", "xsimd"},
		},
		{
			name: "two files concatenate in argument order",
			in: Inputs{
				Files: []*specfile.File{classicFile("a.txt", "xtensor"), classicFile("b.txt", "xsimd")},
			},
			expected: []string{"xtensor", "xsimd"},
		},
		{
			name:     "no specs",
			in:       Inputs{},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := tt.in
			in.DefaultRootPrefix = testRoot
			in.CLI.Name = "base"

			plan, err := Resolve(in)
			if err != nil {
				t.Fatalf("Resolve() returned error: %v", err)
			}
			if !reflect.DeepEqual(plan.Specs, tt.expected) {
				t.Errorf("Resolve() specs = %v, want %v", plan.Specs, tt.expected)
			}
		})
	}
}

func TestResolveConflictingSpecFiles(t *testing.T) {
	t.Parallel()

	_, err := Resolve(Inputs{
		Files: []*specfile.File{
			{Path: "a.yaml", Format: specfile.FormatEnvDescription, Specs: []string{"xtensor"}, Env: &specfile.EnvDescription{Dependencies: []string{"xtensor"}}},
			{Path: "b.yaml", Format: specfile.FormatEnvDescription, Specs: []string{"xsimd"}, Env: &specfile.EnvDescription{Dependencies: []string{"xsimd"}}},
		},
		DefaultRootPrefix: testRoot,
	})
	if !errors.Is(err, specfile.ErrConflictingFiles) {
		t.Errorf("Resolve() error = %v, want ErrConflictingFiles", err)
	}
}

func TestResolveChannelsConcatenationOrder(t *testing.T) {
	t.Parallel()

	yamlFile := &specfile.File{
		Path:   "env.yaml",
		Format: specfile.FormatEnvDescription,
		Specs:  []string{"xtensor"},
		Env:    &specfile.EnvDescription{Channels: []string{"yaml"}, Dependencies: []string{"xtensor"}},
	}

	tests := []struct {
		name     string
		in       Inputs
		expected []string
	}{
		{
			name: "cli then file then env then rc",
			in: Inputs{
				CLI:   CLIOptions{Channels: []string{"cli"}},
				Files: []*specfile.File{yamlFile},
				Env:   Environment{Channels: "env_var"},
				RC:    &config.RC{Channels: []string{"rc"}},
			},
			expected: []string{"cli", "yaml", "env_var", "rc"},
		},
		{
			name: "no deduplication",
			in: Inputs{
				CLI: CLIOptions{Channels: []string{"conda-forge"}},
				RC:  &config.RC{Channels: []string{"conda-forge"}},
			},
			expected: []string{"conda-forge", "conda-forge"},
		},
		{
			name: "env var is one aggregate token",
			in: Inputs{
				Env: Environment{Channels: "alpha,beta"},
			},
			expected: []string{"alpha,beta"},
		},
		{
			name:     "no channels resolves empty",
			in:       Inputs{},
			expected: nil,
		},
		{
			name: "mixed subset keeps relative order",
			in: Inputs{
				Env: Environment{Channels: "env_var"},
				RC:  &config.RC{Channels: []string{"rc1", "rc2"}},
			},
			expected: []string{"env_var", "rc1", "rc2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := tt.in
			in.DefaultRootPrefix = testRoot
			if in.CLI.Name == "" {
				in.CLI.Name = "base"
			}

			plan, err := Resolve(in)
			if err != nil {
				t.Fatalf("Resolve() returned error: %v", err)
			}
			if !reflect.DeepEqual(plan.Channels, tt.expected) {
				t.Errorf("Resolve() channels = %v, want %v", plan.Channels, tt.expected)
			}
		})
	}
}

func TestResolveChannelPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cli         CLIOptions
		rc          *config.RC
		expected    ChannelPriority
		expectError bool
	}{
		{
			name:     "no flags defaults to flexible",
			expected: ChannelPriorityFlexible,
		},
		{
			name:     "explicit disabled",
			cli:      CLIOptions{ChannelPriority: "disabled"},
			expected: ChannelPriorityDisabled,
		},
		{
			name:     "explicit flexible",
			cli:      CLIOptions{ChannelPriority: "flexible"},
			expected: ChannelPriorityFlexible,
		},
		{
			name:     "explicit strict",
			cli:      CLIOptions{ChannelPriority: "strict"},
			expected: ChannelPriorityStrict,
		},
		{
			name:     "no switch alone",
			cli:      CLIOptions{NoChannelPriority: true},
			expected: ChannelPriorityDisabled,
		},
		{
			name:     "strict switch alone",
			cli:      CLIOptions{StrictChannelPriority: true},
			expected: ChannelPriorityStrict,
		},
		{
			name:     "agreeing explicit disabled and no switch",
			cli:      CLIOptions{ChannelPriority: "disabled", NoChannelPriority: true},
			expected: ChannelPriorityDisabled,
		},
		{
			name:     "agreeing explicit strict and strict switch",
			cli:      CLIOptions{ChannelPriority: "strict", StrictChannelPriority: true},
			expected: ChannelPriorityStrict,
		},
		{
			name:        "explicit flexible contradicts no switch",
			cli:         CLIOptions{ChannelPriority: "flexible", NoChannelPriority: true},
			expectError: true,
		},
		{
			name:        "explicit strict contradicts no switch",
			cli:         CLIOptions{ChannelPriority: "strict", NoChannelPriority: true},
			expectError: true,
		},
		{
			name:        "explicit disabled contradicts strict switch",
			cli:         CLIOptions{ChannelPriority: "disabled", StrictChannelPriority: true},
			expectError: true,
		},
		{
			name:        "both switches together",
			cli:         CLIOptions{NoChannelPriority: true, StrictChannelPriority: true},
			expectError: true,
		},
		{
			name:     "rc value used when no cli mechanism",
			rc:       &config.RC{ChannelPriority: "strict"},
			expected: ChannelPriorityStrict,
		},
		{
			name:     "cli mechanism overrides rc value without conflict",
			cli:      CLIOptions{NoChannelPriority: true},
			rc:       &config.RC{ChannelPriority: "strict"},
			expected: ChannelPriorityDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cli := tt.cli
			cli.Name = "base"

			plan, err := Resolve(Inputs{CLI: cli, RC: tt.rc, DefaultRootPrefix: testRoot})
			if tt.expectError {
				if !errors.Is(err, ErrConflictingChannelPriority) {
					t.Fatalf("Resolve() error = %v, want ErrConflictingChannelPriority", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() returned error: %v", err)
			}
			if plan.ChannelPriority != tt.expected {
				t.Errorf("Resolve() channel priority = %q, want %q", plan.ChannelPriority, tt.expected)
			}
		})
	}
}

func TestResolveInvalidChannelPriorityValue(t *testing.T) {
	t.Parallel()

	_, err := Resolve(Inputs{
		CLI:               CLIOptions{Name: "base", ChannelPriority: "maximum"},
		DefaultRootPrefix: testRoot,
	})
	if !errors.Is(err, ErrInvalidChannelPriority) {
		t.Errorf("Resolve() error = %v, want ErrInvalidChannelPriority", err)
	}
}

func TestResolveChannelAlias(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cli      string
		rc       string
		expected string
	}{
		{
			name:     "default alias",
			expected: "https://conda.anaconda.org",
		},
		{
			name:     "cli alias with trailing slash trimmed",
			cli:      "https://repo.mamba.pm/",
			expected: "https://repo.mamba.pm",
		},
		{
			name:     "rc alias",
			rc:       "https://repo.mamba.pm",
			expected: "https://repo.mamba.pm",
		},
		{
			name:     "cli beats rc",
			cli:      "https://conda.anaconda.org",
			rc:       "https://repo.mamba.pm",
			expected: "https://conda.anaconda.org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var rc *config.RC
			if tt.rc != "" {
				rc = &config.RC{ChannelAlias: tt.rc}
			}

			plan, err := Resolve(Inputs{
				CLI:               CLIOptions{Name: "base", ChannelAlias: tt.cli},
				RC:                rc,
				DefaultRootPrefix: testRoot,
			})
			if err != nil {
				t.Fatalf("Resolve() returned error: %v", err)
			}
			if plan.ChannelAlias != tt.expected {
				t.Errorf("Resolve() channel alias = %q, want %q", plan.ChannelAlias, tt.expected)
			}
		})
	}
}
