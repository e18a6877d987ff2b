package core

import (
	"fmt"
	"strings"
)

type PamDefaults struct {
	CheckoutDurationMinutes int `koanf:"checkout_duration_minutes" mapstructure:"checkout_duration_minutes"`
}

type VerificationConfig struct {
	AutoVerifyWithOAuth bool `koanf:"auto_verify_with_oauth" mapstructure:"auto_verify_with_oauth"`
}

type Config struct {
	ServiceName  string             `koanf:"service_name" mapstructure:"service_name"`
	Pam          PamDefaults        `koanf:"pam" mapstructure:"pam"`
	Verification VerificationConfig `koanf:"verification" mapstructure:"verification"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "access",
		Pam: PamDefaults{
			CheckoutDurationMinutes: DefaultCheckoutDurationMinutes,
		},
		Verification: VerificationConfig{},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Pam.CheckoutDurationMinutes < 0 {
		return fmt.Errorf("core: pam.checkout_duration_minutes must not be negative")
	}
	return nil
}
