// SPDX-License-Identifier: MPL-2.0

package specfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// EnvDescription is the payload of a YAML environment-description file.
type EnvDescription struct {
	// Name optionally names the target environment.
	Name string `yaml:"name"`
	// Channels optionally lists channels to search, in order.
	Channels []string `yaml:"channels"`
	// Dependencies lists requirement strings, in order. Required.
	Dependencies []string `yaml:"dependencies"`
}

// parseEnvDescription decodes a YAML environment description. The
// dependencies sequence is mandatory; name and channels are optional.
func parseEnvDescription(data []byte, path string) (*File, error) {
	// Reject unknown keys so typos like "dependancies" fail loudly
	// instead of silently producing an empty install.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var env EnvDescription
	if err := dec.Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FormatError{Path: path, Reason: "environment description is empty"}
		}
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("malformed environment description: %v", err)}
	}

	if env.Dependencies == nil {
		return nil, &FormatError{Path: path, Reason: "environment description has no dependencies sequence"}
	}

	return &File{
		Path:   path,
		Format: FormatEnvDescription,
		Specs:  env.Dependencies,
		Env:    &env,
	}, nil
}
