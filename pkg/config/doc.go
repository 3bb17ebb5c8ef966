// Package config loads environment-backed configuration structs.
//
// Each package declares its own Config struct with `env` tags and the
// application composes them at startup:
//
//	type Config struct {
//		Addr   string        `env:"HTTP_ADDR" envDefault:":8080"`
//		Secret string        `env:"AUTH_SECRET,required"`
//		TTL    time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"168h"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// A .env file in the working directory is read once, before the first parse;
// real environment variables take precedence over it.
package config
