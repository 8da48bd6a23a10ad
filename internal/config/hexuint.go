package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// HexUint is a YAML scalar parsed with strconv.ParseUint(s, 0, 64),
// honoring a leading "0x" (or "0" octal) the way the CLI's own hex
// literals are read — every numeric leaf in the config file is a
// string for this reason, never a bare YAML integer node.
type HexUint uint64

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *HexUint) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("config: %s: expected a numeric string, not %s", node.Tag, node.Value)
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return fmt.Errorf("config: invalid numeric literal %q: %w", s, err)
	}
	*h = HexUint(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler, round-tripping as hex.
func (h HexUint) MarshalYAML() (any, error) {
	return fmt.Sprintf("0x%x", uint64(h)), nil
}

// Verbosity bit constants, named from the original emulator's
// CLVB_* macros.
type VerbosityBit uint32

const (
	VerbosityCallstack VerbosityBit = 1 << iota
	VerbositySteps
	VerbosityCommands
	VerbosityErrors
)

// Has reports whether bit is set in v.
func (v HexUint) Has(bit VerbosityBit) bool {
	return uint32(v)&uint32(bit) != 0
}
