package auth

import "time"

// Config holds the authentication settings sourced from the environment.
// The signing secret is required: hard-coding it would mean one leaked
// binary invalidates every deployment.
type Config struct {
	// Secret is the HMAC signing secret, process-wide and immutable.
	Secret string `env:"AUTH_SECRET,required"`

	// TokenTTL is the token lifetime; 7 days by default.
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"168h"`

	// BcryptCost is the bcrypt cost used for password hashing.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}
