// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      NewActionableError("resolve target prefix"),
			expected: "failed to resolve target prefix",
		},
		{
			name: "operation and resource",
			err: NewErrorContext().
				WithOperation("parse spec file").
				WithResource("./env.yaml").
				Build(),
			expected: "failed to parse spec file: ./env.yaml",
		},
		{
			name: "operation resource and cause",
			err: NewErrorContext().
				WithOperation("load rc file").
				WithResource("~/.marmotrc").
				Wrap(errors.New("yaml: line 3: mapping values are not allowed")).
				Build(),
			expected: "failed to load rc file: ~/.marmotrc: yaml: line 3: mapping values are not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorContextRequiresOperation(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().WithResource("x").BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such file")
	err := WrapWithContext(cause, "read spec file", "specs.txt")

	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find the wrapped cause")
	}
}

func TestFormatIncludesSuggestions(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("resolve channel priority").
		WithSuggestion("Drop one of the conflicting flags").
		WithSuggestion("See 'marmot install --help'").
		Build()

	got := err.Format(false)
	if !strings.Contains(got, "• Drop one of the conflicting flags") {
		t.Errorf("Format() missing first suggestion: %q", got)
	}
	if !strings.Contains(got, "• See 'marmot install --help'") {
		t.Errorf("Format() missing second suggestion: %q", got)
	}
}

func TestFormatVerboseShowsErrorChain(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := NewErrorContext().
		WithOperation("aggregate sources").
		Wrap(WrapWithOperation(inner, "read environment")).
		Build()

	got := err.Format(true)
	if !strings.Contains(got, "Error chain:") {
		t.Errorf("Format(true) missing error chain: %q", got)
	}
	if !strings.Contains(got, "2. inner") {
		t.Errorf("Format(true) missing chained cause: %q", got)
	}
}
