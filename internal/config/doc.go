// SPDX-License-Identifier: MPL-2.0

// Package config loads the marmot run-control (rc) file using Viper.
//
// The rc file is YAML and is the lowest-precedence configuration source of
// an installation request. It is looked up at ~/.marmotrc, then
// $XDG_CONFIG_HOME/marmot/rc.yaml, unless an explicit path is given via
// --rc-file or loading is disabled entirely via --no-rc.
//
// The loaded tree is validated against a CUE schema (rc_schema.cue) so
// unknown keys and wrongly-typed values fail with a clear message instead
// of being silently ignored.
package config
