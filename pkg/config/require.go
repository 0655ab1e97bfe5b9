package config

import (
	"log"
	"slices"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustOneOf(value, envName string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		log.Fatalf("env %s=%q must be one of %v", envName, value, allowed)
	}
}

// MustServe checks everything the HTTP server cannot start without.
func (c Config) MustServe() {
	MustOneOf(c.DBDriver, "DB_DRIVER", "postgres", "sqlite")
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
}
