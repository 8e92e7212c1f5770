package config_test

import (
	"net/url"
	"testing"

	"innkeep/config"

	"github.com/stretchr/testify/assert"
)

func TestPostgresEndpointURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint config.PostgresEndpoint
		prefix   string
		extra    url.Values
		expected string
	}{
		{
			name:     "plain",
			endpoint: config.PostgresEndpoint{Host: "db", Port: "5432", Username: "inn", Password: "secret", Name: "innkeep", SSLMode: "disable"},
			expected: "postgres://inn:secret@db:5432/innkeep?sslmode=disable",
		},
		{
			name:     "prefix and timezone",
			endpoint: config.PostgresEndpoint{Host: "db", Port: "5432", Username: "inn", Password: "secret", Name: "innkeep", SSLMode: "require", Timezone: "UTC"},
			prefix:   "test_",
			expected: "postgres://inn:secret@db:5432/test_innkeep?sslmode=require&timezone=UTC",
		},
		{
			name:     "password is escaped",
			endpoint: config.PostgresEndpoint{Host: "db", Port: "5432", Username: "inn", Password: "p@ss/word", Name: "innkeep"},
			expected: "postgres://inn:p%40ss%2Fword@db:5432/innkeep",
		},
		{
			name:     "extra parameters",
			endpoint: config.PostgresEndpoint{Host: "db", Port: "5432", Username: "inn", Password: "secret", Name: "innkeep", SSLMode: "disable"},
			extra:    url.Values{"x-migrations-table": {"schema_migrations"}},
			expected: "postgres://inn:secret@db:5432/innkeep?sslmode=disable&x-migrations-table=schema_migrations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.endpoint.URL(tt.prefix, tt.extra))
		})
	}
}
