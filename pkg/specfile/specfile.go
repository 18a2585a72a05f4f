// SPDX-License-Identifier: MPL-2.0

package specfile

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ExplicitSentinel marks a spec file as explicit format. It must be the
// first non-blank line of the file.
const ExplicitSentinel = "@EXPLICIT"

var (
	// ErrFileNotFound is returned when the spec file does not exist.
	ErrFileNotFound = errors.New("spec file not found")
	// ErrFormat is the sentinel error wrapped by FormatError.
	ErrFormat = errors.New("invalid spec file format")
)

type (
	// Format discriminates the three spec-file variants. Downstream
	// consumers match it exhaustively; there is no fourth case.
	Format string

	// File is the parsed result of a single spec file.
	//
	// For FormatClassic and FormatExplicit, Specs holds the requirement
	// strings (classic) or explicit URL references (explicit) in file
	// order and Env is nil. For FormatEnvDescription, Env is non-nil and
	// Specs mirrors Env.Dependencies.
	File struct {
		Path   string
		Format Format
		Specs  []string
		Env    *EnvDescription
	}

	// FormatError reports a malformed spec file. It wraps ErrFormat for
	// errors.Is() compatibility.
	FormatError struct {
		Path   string
		Reason string
	}
)

const (
	// FormatClassic is a plain list of requirement strings.
	FormatClassic Format = "classic"
	// FormatExplicit is an @EXPLICIT list of package URLs with hashes.
	FormatExplicit Format = "explicit"
	// FormatEnvDescription is a YAML environment description.
	FormatEnvDescription Format = "env-description"
)

// Error returns the error message for FormatError.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid spec file %s: %s", e.Path, e.Reason)
}

// Unwrap returns ErrFormat so callers can use errors.Is.
func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// Parse reads and parses the spec file at path, detecting its format.
func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read spec file %s: %w", path, err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses spec file content from bytes. The path is used for
// format detection (extension) and error messages only.
func ParseBytes(data []byte, path string) (*File, error) {
	lines := strings.Split(string(data), "\n")

	if firstNonBlank(lines) == ExplicitSentinel {
		return parseExplicit(lines, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return parseEnvDescription(data, path)
	}

	return parseClassic(lines, path), nil
}

// Validate performs the install-time checks that Parse deliberately skips:
// every explicit entry must be a well-formed URL reference carrying a
// non-empty content-hash fragment. A single malformed entry invalidates
// the whole file. Classic and environment-description files always pass.
func (f *File) Validate() error {
	if f.Format != FormatExplicit {
		return nil
	}

	for _, spec := range f.Specs {
		ref, err := url.Parse(spec)
		if err != nil {
			return &FormatError{Path: f.Path, Reason: fmt.Sprintf("malformed package URL %q", spec)}
		}
		if ref.Fragment == "" {
			return &FormatError{Path: f.Path, Reason: fmt.Sprintf("package URL %q has no content hash", spec)}
		}
	}

	return nil
}

// parseClassic reads one requirement string per non-blank, non-comment
// line, preserving order and duplicates.
func parseClassic(lines []string, path string) *File {
	f := &File{Path: path, Format: FormatClassic}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		f.Specs = append(f.Specs, trimmed)
	}

	return f
}

// parseExplicit reads URL references from the lines after the sentinel.
// Only the first whitespace-separated token of each line matters; a file
// with zero entries is a valid empty explicit install.
func parseExplicit(lines []string, path string) (*File, error) {
	f := &File{Path: path, Format: FormatExplicit}

	seenSentinel := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !seenSentinel {
			// firstNonBlank already matched the sentinel.
			seenSentinel = true
			continue
		}
		f.Specs = append(f.Specs, strings.Fields(trimmed)[0])
	}

	return f, nil
}

// firstNonBlank returns the first non-blank line, trimmed, or "".
func firstNonBlank(lines []string) string {
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
