package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks values that struct tags cannot express. Load calls it.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %s)", c.Auth.TokenTTL)
	}
	// bcrypt.MinCost and MaxCost are 4 and 31; above 14 logins get too slow.
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 14 (got %d)", c.Auth.BcryptCost)
	}
	if c.Auth.RateLimitRPS < 0 {
		return fmt.Errorf("auth.rate_limit_rps must be >= 0 (got %v)", c.Auth.RateLimitRPS)
	}
	if c.Auth.RateLimitBurst < 1 {
		return fmt.Errorf("auth.rate_limit_burst must be >= 1 (got %d)", c.Auth.RateLimitBurst)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}

	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path must not be empty")
	}
	if c.Database.RetryInterval <= 0 {
		return fmt.Errorf("database.retry_interval must be > 0 (got %s)", c.Database.RetryInterval)
	}
	if c.Database.WaitTimeout < 0 {
		return fmt.Errorf("database.wait_timeout must be >= 0 (got %s)", c.Database.WaitTimeout)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}
