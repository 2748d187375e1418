package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, DefaultTokenTTL, cfg.Auth.TokenTTL)
	assert.Equal(t, DefaultSessionTTL, cfg.Auth.SessionTTL)
	assert.Equal(t, DefaultPasswordExpiryDays, cfg.PasswordPolicy.ExpiryDays)
	assert.Equal(t, []string{DefaultExemptUsername}, cfg.PasswordPolicy.ExemptUsernames)
}

func TestApplyDefaults_ExplicitValuesKept(t *testing.T) {
	cfg := &Config{
		PasswordPolicy: &PasswordPolicyConfig{
			ExpiryDays:      30,
			ExemptUsernames: []string{"root", "ops"},
		},
	}
	applyDefaults(cfg)

	assert.Equal(t, 30, cfg.PasswordPolicy.ExpiryDays)
	assert.Equal(t, []string{"root", "ops"}, cfg.PasswordPolicy.ExemptUsernames)
}
