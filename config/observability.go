package config

import "strings"

// StatsdConfig controls the optional StatsD metrics sink.
type StatsdConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Address string `env:"ADDR"    envDefault:"localhost:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"authkit"`
}

// Sanitize applies guardrails to statsd settings.
func (c *StatsdConfig) Sanitize() {
	c.Address = strings.TrimSpace(c.Address)
	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
	if c.Address == "" {
		c.Enabled = false
	}
}
