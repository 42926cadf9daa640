package recloser

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors the external-interface option table (§6): a flat
// document naming the same knobs the functional options expose, for hosts
// that prefer a config file over code. Grounded in oriys-nova's pattern of
// loading its own daemon configuration from a YAML document at startup.
type yamlConfig struct {
	ErrorRate         *float32 `yaml:"error_rate"`
	ErrorRateClosed   *float32 `yaml:"error_rate_closed"`
	ErrorRateHalfOpen *float32 `yaml:"error_rate_half_open"`
	ClosedLen         *int     `yaml:"closed_len"`
	HalfOpenLen       *int     `yaml:"half_open_len"`
	OpenWait          *string  `yaml:"open_wait"`
	Name              *string  `yaml:"name"`
}

// LoadConfig parses a YAML document of breaker options into a single
// Option, so it can be combined with code-supplied options (e.g.
// WithOpenWaitStrategy, which has no YAML-expressible shape):
//
//	opt, err := recloser.LoadConfig(r)
//	b, err := recloser.New(opt, recloser.WithOpenWaitStrategy(strategy))
func LoadConfig(r io.Reader) (Option, error) {
	var doc yamlConfig
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("recloser: decode yaml config: %w", err)
	}

	var opts []Option
	if doc.ErrorRate != nil {
		opts = append(opts, WithErrorRate(*doc.ErrorRate))
	}
	if doc.ErrorRateClosed != nil {
		opts = append(opts, WithErrorRateClosed(*doc.ErrorRateClosed))
	}
	if doc.ErrorRateHalfOpen != nil {
		opts = append(opts, WithErrorRateHalfOpen(*doc.ErrorRateHalfOpen))
	}
	if doc.ClosedLen != nil {
		opts = append(opts, WithClosedLen(*doc.ClosedLen))
	}
	if doc.HalfOpenLen != nil {
		opts = append(opts, WithHalfOpenLen(*doc.HalfOpenLen))
	}
	if doc.OpenWait != nil {
		d, err := time.ParseDuration(*doc.OpenWait)
		if err != nil {
			return nil, fmt.Errorf("recloser: parse open_wait: %w", err)
		}
		opts = append(opts, WithOpenWait(d))
	}
	if doc.Name != nil {
		opts = append(opts, WithName(*doc.Name))
	}

	return func(c *config) error {
		for _, opt := range opts {
			if err := opt(c); err != nil {
				return err
			}
		}
		return nil
	}, nil
}
