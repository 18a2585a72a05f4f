// SPDX-License-Identifier: MPL-2.0

package specfile

import (
	"errors"
	"reflect"
	"testing"
)

func TestCombineConcatenatesInFileOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    []*File
		expected []string
	}{
		{
			name: "two classic files",
			files: []*File{
				{Path: "a.txt", Format: FormatClassic, Specs: []string{"xtensor"}},
				{Path: "b.txt", Format: FormatClassic, Specs: []string{"xsimd"}},
			},
			expected: []string{"xtensor", "xsimd"},
		},
		{
			name: "two explicit files",
			files: []*File{
				{Path: "a.txt", Format: FormatExplicit, Specs: []string{"https://example.org/a.tar.bz2#1"}},
				{Path: "b.txt", Format: FormatExplicit, Specs: []string{"https://example.org/b.tar.bz2#2"}},
			},
			expected: []string{"https://example.org/a.tar.bz2#1", "https://example.org/b.tar.bz2#2"},
		},
		{
			name: "classic then explicit",
			files: []*File{
				{Path: "a.txt", Format: FormatClassic, Specs: []string{"xtl"}},
				{Path: "b.txt", Format: FormatExplicit, Specs: []string{"https://example.org/b.tar.bz2#2"}},
			},
			expected: []string{"xtl", "https://example.org/b.tar.bz2#2"},
		},
		{
			name: "single environment description",
			files: []*File{
				{Path: "env.yaml", Format: FormatEnvDescription, Specs: []string{"xtensor"}, Env: &EnvDescription{Name: "stats", Dependencies: []string{"xtensor"}}},
			},
			expected: []string{"xtensor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			combined, err := Combine(tt.files)
			if err != nil {
				t.Fatalf("Combine() returned error: %v", err)
			}
			if !reflect.DeepEqual(combined.Specs, tt.expected) {
				t.Errorf("Combine() specs = %v, want %v", combined.Specs, tt.expected)
			}
		})
	}
}

func TestCombineConflicts(t *testing.T) {
	t.Parallel()

	envFile := func(path, name string) *File {
		return &File{
			Path:   path,
			Format: FormatEnvDescription,
			Specs:  []string{"xtensor"},
			Env:    &EnvDescription{Name: name, Dependencies: []string{"xtensor"}},
		}
	}

	tests := []struct {
		name  string
		files []*File
	}{
		{
			name:  "two environment descriptions",
			files: []*File{envFile("a.yaml", "one"), envFile("b.yaml", "two")},
		},
		{
			name: "environment description mixed with classic",
			files: []*File{
				envFile("a.yaml", "one"),
				{Path: "b.txt", Format: FormatClassic, Specs: []string{"xtl"}},
			},
		},
		{
			name: "classic before environment description",
			files: []*File{
				{Path: "a.txt", Format: FormatClassic, Specs: []string{"xtl"}},
				envFile("b.yaml", "one"),
			},
		},
		{
			name: "environment description mixed with explicit",
			files: []*File{
				envFile("a.yaml", "one"),
				{Path: "b.txt", Format: FormatExplicit, Specs: nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Combine(tt.files); !errors.Is(err, ErrConflictingFiles) {
				t.Errorf("Combine() error = %v, want ErrConflictingFiles", err)
			}
		})
	}
}

func TestCombineCarriesEnvMetadata(t *testing.T) {
	t.Parallel()

	combined, err := Combine([]*File{{
		Path:   "env.yaml",
		Format: FormatEnvDescription,
		Specs:  []string{"xtensor"},
		Env:    &EnvDescription{Name: "stats", Channels: []string{"yaml"}, Dependencies: []string{"xtensor"}},
	}})
	if err != nil {
		t.Fatalf("Combine() returned error: %v", err)
	}
	if combined.EnvName != "stats" {
		t.Errorf("Combine() env name = %q, want %q", combined.EnvName, "stats")
	}
	if expected := []string{"yaml"}; !reflect.DeepEqual(combined.Channels, expected) {
		t.Errorf("Combine() channels = %v, want %v", combined.Channels, expected)
	}
	if combined.Explicit {
		t.Error("Combine() explicit = true, want false")
	}
}
