// Package config loads runtime configuration from environment variables,
// read once at startup.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// Config holds everything the server needs to start.
type Config struct {
	// HTTPAddr is the listen address.
	HTTPAddr string `env:"KITZCORNER_HTTP_ADDR" envDefault:":8080"`
	// DSN is the database connection string. The sqlite shim accepts
	// file paths and :memory:.
	DSN string `env:"KITZCORNER_DSN" envDefault:"file:kitzcorner.db"`
	// SigningKey signs session tokens. Required.
	SigningKey string `env:"KITZCORNER_SIGNING_KEY,required"`
	// TokenExpiration is the session token lifetime in hours.
	TokenExpiration int `env:"KITZCORNER_TOKEN_EXPIRATION" envDefault:"24"`
	// Issuer is the session token issuer claim.
	Issuer string `env:"KITZCORNER_TOKEN_ISSUER" envDefault:"kitzcorner-admin"`
	// BaseURL prefixes the links embedded in verification and reset emails.
	BaseURL string `env:"KITZCORNER_BASE_URL" envDefault:"http://localhost:8080"`
	// UploadEndpoint is the asset host's unsigned upload URL. Empty disables
	// the upload endpoint.
	UploadEndpoint string `env:"KITZCORNER_UPLOAD_ENDPOINT"`
	// UploadPreset is the unsigned upload preset name.
	UploadPreset string `env:"KITZCORNER_UPLOAD_PRESET"`
	// PhoneRegion is the default region for bare national phone numbers.
	PhoneRegion string `env:"KITZCORNER_PHONE_REGION" envDefault:"IN"`
	// Debug enables request payload dumps.
	Debug bool `env:"KITZCORNER_DEBUG" envDefault:"false"`
}

// LoadFromEnv parses the environment into a Config.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "could not parse environment configuration")
	}
	return cfg, nil
}
