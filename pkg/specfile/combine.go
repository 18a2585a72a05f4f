// SPDX-License-Identifier: MPL-2.0

package specfile

import (
	"errors"
	"fmt"
)

// ErrConflictingFiles is the sentinel error wrapped by ConflictError.
var ErrConflictingFiles = errors.New("conflicting spec files")

type (
	// Combined is the merged view over all spec files of one invocation.
	Combined struct {
		// Specs is the concatenation of every file's spec list, in
		// file-argument order.
		Specs []string
		// EnvName is the environment-description name, if one file
		// supplied it.
		EnvName string
		// Channels is the environment-description channel list, if one
		// file supplied it.
		Channels []string
		// Explicit reports that the invocation is an explicit install.
		Explicit bool
	}

	// ConflictError reports an ambiguous spec-file combination: more than
	// one environment description, or an environment description mixed
	// with classic/explicit files. It wraps ErrConflictingFiles for
	// errors.Is() compatibility.
	ConflictError struct {
		Paths  []string
		Reason string
	}
)

// Error returns the error message for ConflictError.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting spec files %v: %s", e.Paths, e.Reason)
}

// Unwrap returns ErrConflictingFiles so callers can use errors.Is.
func (e *ConflictError) Unwrap() error {
	return ErrConflictingFiles
}

// Combine merges the parsed spec files of a single invocation.
//
// Classic and explicit files concatenate their spec lists in the order the
// files were given. An environment description must be the only file of
// the invocation: a second one makes it ambiguous which name and channel
// list win, and mixing it with classic/explicit files is equally
// ambiguous. Both cases fail with a ConflictError.
func Combine(files []*File) (*Combined, error) {
	combined := &Combined{}

	var envDescPath string
	for _, f := range files {
		switch f.Format {
		case FormatEnvDescription:
			if envDescPath != "" {
				return nil, &ConflictError{
					Paths:  []string{envDescPath, f.Path},
					Reason: "multiple environment descriptions",
				}
			}
			envDescPath = f.Path
			combined.EnvName = f.Env.Name
			combined.Channels = f.Env.Channels
		case FormatClassic:
		case FormatExplicit:
			combined.Explicit = true
		}

		combined.Specs = append(combined.Specs, f.Specs...)
	}

	if envDescPath != "" && len(files) > 1 {
		paths := make([]string, 0, len(files))
		for _, f := range files {
			paths = append(paths, f.Path)
		}
		return nil, &ConflictError{
			Paths:  paths,
			Reason: "environment description mixed with other spec files",
		}
	}

	return combined, nil
}
