package octree

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/octree/utils"
)

const (
	// MaxDimension bounds the dimension so a node's 2^d children stay a small block.
	MaxDimension = 8
	// MaxDepthLimit is the deepest bound a config may request.
	MaxDepthLimit = 64
	// DefaultDimension gives an octree proper.
	DefaultDimension = 3
)

// Config describes the shape of a tree.
type Config struct {
	// Dimension d gives every internal node 2^d children.
	Dimension int `json:"dimension"`
	// MaxDepth bounds the level at which children can still be added. Zero means unbounded.
	MaxDepth int `json:"max_depth,omitempty"`
	// InitialCapacity preallocates arena slots.
	InitialCapacity int `json:"initial_capacity,omitempty"`
}

// DefaultConfig returns an unbounded three dimensional config.
func DefaultConfig() *Config {
	return &Config{Dimension: DefaultDimension}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var errs error
	switch {
	case cfg.Dimension == 0:
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "dimension"))
	case cfg.Dimension < 1 || cfg.Dimension > MaxDimension:
		errs = multierr.Append(errs,
			utils.NewConfigValidationFieldRangeError(path, "dimension", cfg.Dimension, 1, MaxDimension))
	}
	if cfg.MaxDepth < 0 || cfg.MaxDepth > MaxDepthLimit {
		errs = multierr.Append(errs,
			utils.NewConfigValidationFieldRangeError(path, "max_depth", cfg.MaxDepth, 0, MaxDepthLimit))
	}
	if cfg.InitialCapacity < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("%q must not be negative, got %d", "initial_capacity", cfg.InitialCapacity)))
	}
	return errs
}

// ReadConfig decodes a JSON config and validates it.
func ReadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "cannot parse octree config")
	}
	if err := cfg.Validate("octree"); err != nil {
		return nil, err
	}
	return cfg, nil
}
