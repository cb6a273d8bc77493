package auth

import "github.com/taskfleet/taskfleet/internal/config"

// testAuthConfig returns a standard auth configuration for tests.
func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   secret,
		AccessTokenLifetimeMinutes:  60,
		RefreshTokenLifetimeMinutes: 1440,
		InviteTokenLifetimeMinutes:  30,
	}
}
