package octree

import (
	"strings"
	"testing"

	"go.viam.com/test"
)

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		cfg    Config
		errStr []string
	}{
		{"default", *DefaultConfig(), nil},
		{"binary tree", Config{Dimension: 1, MaxDepth: 64}, nil},
		{"missing dimension", Config{}, []string{`"dimension" is required`}},
		{"dimension too large", Config{Dimension: 9}, []string{`"dimension" must be between 1 and 8, got 9`}},
		{"negative dimension", Config{Dimension: -2}, []string{`"dimension" must be between 1 and 8, got -2`}},
		{
			"everything wrong",
			Config{Dimension: 12, MaxDepth: 65, InitialCapacity: -1},
			[]string{`"dimension"`, `"max_depth" must be between 0 and 64, got 65`, `"initial_capacity" must not be negative`},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate("path")
			if len(tc.errStr) == 0 {
				test.That(t, err, test.ShouldBeNil)
				return
			}
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, `error validating "path"`)
			for _, s := range tc.errStr {
				test.That(t, err.Error(), test.ShouldContainSubstring, s)
			}
		})
	}
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(`{"dimension": 2, "max_depth": 10, "initial_capacity": 64}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg, test.ShouldResemble, &Config{Dimension: 2, MaxDepth: 10, InitialCapacity: 64})

	cfg, err = ReadConfig(strings.NewReader(`{"max_depth": 4}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Dimension, test.ShouldEqual, DefaultDimension)

	_, err = ReadConfig(strings.NewReader(`{"dimensions": 2}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot parse octree config")

	_, err = ReadConfig(strings.NewReader(`{"dimension": 0}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"dimension" is required`)
}
