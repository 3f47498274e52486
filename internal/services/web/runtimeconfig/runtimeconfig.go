// Package runtimeconfig carries the deployment settings the views read while
// rendering. A Config is built once at startup and never mutated.
package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Config holds the product settings views depend on.
type Config struct {
	// SignInURL is the external account-system login page.
	SignInURL string `env:"SIGN_IN_URL" envDefault:"http://127.0.0.1:3000/accounts/fxa/login/?process=login"`
	// FxAOrigin is the account-system origin used for subscription links.
	FxAOrigin              string `env:"FXA_ORIGIN" envDefault:"https://accounts.firefox.com"`
	EmailSizeLimitNumber   int    `env:"EMAIL_SIZE_LIMIT_NUMBER" envDefault:"10"`
	EmailSizeLimitUnit     string `env:"EMAIL_SIZE_LIMIT_UNIT" envDefault:"MB"`
	MaxOnboardingAvailable int    `env:"MAX_ONBOARDING_AVAILABLE" envDefault:"3"`
	MozmailDomain          string `env:"MOZMAIL_DOMAIN" envDefault:"mozmail.com"`
	PremiumProductID       string `env:"PREMIUM_PRODUCT_ID" envDefault:"prod_9Ue5XqABIAVAIT"`
	WaitlistURL            string `env:"WAITLIST_URL" envDefault:"/premium/waitlist"`
	AddonURL               string `env:"ADDON_URL" envDefault:"https://addons.mozilla.org/firefox/addon/private-relay/"`
}

// Validate reports settings that would produce broken links or states.
func (c Config) Validate() error {
	var errs []error
	for name, value := range map[string]string{
		"sign-in url": c.SignInURL,
		"fxa origin":  c.FxAOrigin,
		"addon url":   c.AddonURL,
	} {
		if err := absoluteURL(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if strings.TrimSpace(c.WaitlistURL) == "" {
		errs = append(errs, errors.New("waitlist url is required"))
	}
	if strings.TrimSpace(c.MozmailDomain) == "" {
		errs = append(errs, errors.New("mozmail domain is required"))
	}
	if c.MaxOnboardingAvailable < 0 {
		errs = append(errs, errors.New("max onboarding must not be negative"))
	}
	if c.EmailSizeLimitNumber <= 0 {
		errs = append(errs, errors.New("email size limit must be positive"))
	}
	return errors.Join(errs...)
}

func absoluteURL(value string) error {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%q must be an absolute http(s) url", value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%q has no host", value)
	}
	return nil
}
