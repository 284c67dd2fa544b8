package config

import "time"

// CaptchaConfig contains CAPTCHA challenge configuration.
type CaptchaConfig struct {
	// Length is the number of characters in the challenge text.
	Length int `env:"LENGTH" envDefault:"5"`

	// Width and Height are the rendered image dimensions in pixels.
	Width  int `env:"WIDTH"  envDefault:"240"`
	Height int `env:"HEIGHT" envDefault:"80"`

	// TTL bounds how long an issued challenge stays answerable.
	TTL time.Duration `env:"TTL" envDefault:"5m"`

	// Attempts is how many wrong answers a single challenge survives
	// before it is discarded.
	Attempts int `env:"ATTEMPTS" envDefault:"5"`
}

// Sanitize applies guardrails to CAPTCHA configuration values.
func (c *CaptchaConfig) Sanitize() {
	if c.Length < 4 {
		c.Length = 4
	}
	if c.Length > 10 {
		c.Length = 10
	}
	if c.TTL < 30*time.Second {
		c.TTL = 30 * time.Second
	}
	if c.Attempts < 1 {
		c.Attempts = 1
	}
}

// CertificateConfig contains accreditation certificate configuration.
type CertificateConfig struct {
	// SigningKey signs certificate verification tokens (HMAC-SHA256).
	SigningKey string `env:"SIGNING_KEY,required"`

	// Issuer names this portal in issued verification tokens.
	Issuer string `env:"ISSUER" envDefault:"portal-api"`

	// Validity is how long issued certificates stay valid.
	Validity time.Duration `env:"VALIDITY" envDefault:"8760h"` // 1 year
}

// Sanitize applies guardrails to certificate configuration values.
func (c *CertificateConfig) Sanitize() {
	if c.Validity < 24*time.Hour {
		c.Validity = 24 * time.Hour
	}
}
