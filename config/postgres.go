package config

import (
	"net"
	"net/url"
)

// PostgresEndpoint is one side of the read/write pool pair.
type PostgresEndpoint struct {
	Host         string `envconfig:"HOST"`
	Port         string `envconfig:"PORT"`
	Username     string `envconfig:"USER"`
	Password     string `envconfig:"PASSWORD"`
	Name         string `envconfig:"NAME"`
	Timezone     string `envconfig:"TIMEZONE"`
	SSLMode      string `envconfig:"SSL_MODE" default:"disable"`
	MaxOpenConns int    `envconfig:"MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
}

// DatabaseName applies the environment prefix, e.g. "test_" for the test database.
func (e PostgresEndpoint) DatabaseName(prefix string) string {
	return prefix + e.Name
}

// URL renders a postgres:// connection URL with escaped credentials.
// extra carries driver-specific parameters such as x-migrations-table.
func (e PostgresEndpoint) URL(prefix string, extra url.Values) string {
	query := url.Values{}

	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	target := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.DatabaseName(prefix),
		RawQuery: query.Encode(),
	}

	return target.String()
}
