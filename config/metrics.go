package config

import "strings"

// MetricsConfig controls StatsD emission for guard and profile metrics.
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Address string `env:"ADDRESS" envDefault:"localhost:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"storefront_admin"`
	// Env is attached to every metric as the "env" tag when set.
	Env string `env:"ENV"`
}

// Sanitize applies guardrails to metrics configuration values.
func (m *MetricsConfig) Sanitize() {
	m.Address = strings.TrimSpace(m.Address)
	m.Prefix = strings.Trim(strings.TrimSpace(m.Prefix), ".")
	if m.Address == "" {
		m.Enabled = false
	}
}
