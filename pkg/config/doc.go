// Package config loads typed configuration from environment variables with
// github.com/caarlos0/env/v11, optionally seeded from .env files through
// github.com/joho/godotenv.
//
// Every package that needs settings declares its own Config struct with env
// tags (pg.Config, httpserver.Config, ...). cmd/authd composes them and loads
// the result once at startup:
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Loaded values are cached per type, so repeated calls are cheap and
// consistent for the life of the process.
package config
