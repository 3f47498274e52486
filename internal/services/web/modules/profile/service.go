package profile

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	apperrors "github.com/louisbranch/relayweb/internal/services/web/platform/errors"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
)

// PageState is the resolved state of the profile page. It is implemented by
// Loading, Unauthenticated, Onboarding and Steady only.
type PageState interface {
	pageState()
}

// Loading is returned while any of the page's reads has no data.
type Loading struct{}

// Unauthenticated is returned when the viewer's user record cannot be read.
type Unauthenticated struct {
	Err error
}

// Onboarding is returned for premium viewers who have not finished the
// premium onboarding flow.
type Onboarding struct {
	Profile relay.Profile
	User    relay.User
	Step    int
	Steps   int
}

// Steady is the regular dashboard.
type Steady struct {
	Profile          relay.Profile
	User             relay.User
	Aliases          []relay.Alias
	Stats            relay.AliasStats
	PremiumCountries *relay.PremiumCountryData
}

func (Loading) pageState()         {}
func (Unauthenticated) pageState() {}
func (Onboarding) pageState()      {}
func (Steady) pageState()          {}

type service struct {
	backend accessor.Backend
	config  runtimeconfig.Config
}

func newService(backend accessor.Backend, config runtimeconfig.Config) service {
	return service{backend: backend, config: config}
}

type pageReads struct {
	profiles accessor.Snapshot[[]relay.Profile]
	users    accessor.Snapshot[[]relay.User]
	random   accessor.Snapshot[[]relay.Alias]
	custom   accessor.Snapshot[[]relay.Alias]
	premium  accessor.Snapshot[*relay.PremiumCountryData]
}

// fetch issues the page reads concurrently. Individual read failures are
// captured in their snapshots; only cancellation of ctx fails the round.
func (s service) fetch(ctx context.Context, token string) (pageReads, error) {
	acc := s.backend.Open(token)
	var reads pageReads
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reads.profiles = accessor.Fetch(gctx, listOf[relay.Profile](acc.Profiles))
		return nil
	})
	g.Go(func() error {
		reads.users = accessor.Fetch(gctx, listOf[relay.User](acc.Users))
		return nil
	})
	g.Go(func() error {
		reads.random = accessor.Fetch(gctx, listOf[relay.Alias](acc.RandomAliases))
		return nil
	})
	g.Go(func() error {
		reads.custom = accessor.Fetch(gctx, listOf[relay.Alias](acc.CustomAliases))
		return nil
	})
	g.Go(func() error {
		if acc.PremiumCountries != nil {
			reads.premium = accessor.Fetch(gctx, acc.PremiumCountries.Load)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return pageReads{}, err
	}
	if err := ctx.Err(); err != nil {
		return pageReads{}, err
	}
	return reads, nil
}

type lister[T any] interface {
	List(context.Context) ([]T, error)
}

func listOf[T any](l lister[T]) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		if l == nil {
			return nil, apperrors.E(apperrors.KindUnavailable, "accessor is not configured")
		}
		return l.List(ctx)
	}
}

// loadPage fetches the page data and resolves its state.
func (s service) loadPage(ctx context.Context, token string) (PageState, error) {
	reads, err := s.fetch(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.resolve(reads), nil
}

func (s service) resolve(reads pageReads) PageState {
	if reads.users.Failed() {
		return Unauthenticated{Err: reads.users.Err}
	}
	if !reads.profiles.Ready || !reads.users.Ready || !reads.random.Ready || !reads.custom.Ready {
		return Loading{}
	}
	if len(reads.profiles.Data) == 0 || len(reads.users.Data) == 0 {
		return Loading{}
	}
	profile := reads.profiles.Data[0]
	user := reads.users.Data[0]
	if profile.HasPremium && profile.OnboardingState < s.config.MaxOnboardingAvailable {
		return Onboarding{Profile: profile, User: user, Step: profile.OnboardingState, Steps: s.config.MaxOnboardingAvailable}
	}
	aliases := relay.CombineAliases(reads.random.Data, reads.custom.Data)
	var premium *relay.PremiumCountryData
	if reads.premium.Ready {
		premium = reads.premium.Data
	}
	return Steady{
		Profile:          profile,
		User:             user,
		Aliases:          aliases,
		Stats:            relay.Stats(aliases),
		PremiumCountries: premium,
	}
}

func (s service) currentProfile(ctx context.Context, acc accessor.Accessors) (relay.Profile, error) {
	if acc.Profiles == nil {
		return relay.Profile{}, apperrors.E(apperrors.KindUnavailable, "profile accessor is not configured")
	}
	profiles, err := acc.Profiles.List(ctx)
	if err != nil {
		return relay.Profile{}, fmt.Errorf("list profiles: %w", err)
	}
	if len(profiles) == 0 {
		return relay.Profile{}, apperrors.E(apperrors.KindNotFound, "viewer has no profile")
	}
	return profiles[0], nil
}

// setOnboardingStep moves the premium onboarding flow to step, clamped to
// the configured maximum. The step only advances.
func (s service) setOnboardingStep(ctx context.Context, token string, step int) error {
	if step < 0 {
		return apperrors.EK(apperrors.KindInvalidInput, "error-onboarding-step-invalid", "onboarding step must not be negative")
	}
	step = min(step, s.config.MaxOnboardingAvailable)
	acc := s.backend.Open(token)
	profile, err := s.currentProfile(ctx, acc)
	if err != nil {
		return err
	}
	if step < profile.OnboardingState {
		return apperrors.EK(apperrors.KindInvalidInput, "error-onboarding-step-invalid",
			fmt.Sprintf("onboarding step %d is behind current step %d", step, profile.OnboardingState))
	}
	if step == profile.OnboardingState {
		return nil
	}
	return acc.Profiles.Update(ctx, profile.ID, relay.ProfileUpdate{OnboardingState: &step})
}

// registerSubdomain claims subdomain for the viewer and returns the
// normalized value.
func (s service) registerSubdomain(ctx context.Context, token string, raw string) (string, error) {
	subdomain, ok := relay.NormalizeSubdomain(raw)
	if !ok {
		return "", apperrors.EK(apperrors.KindInvalidInput, "error-subdomain-invalid", fmt.Sprintf("invalid subdomain %q", raw))
	}
	acc := s.backend.Open(token)
	profile, err := s.currentProfile(ctx, acc)
	if err != nil {
		return "", err
	}
	if !profile.HasPremium {
		return "", apperrors.EK(apperrors.KindForbidden, "error-subdomain-premium", "subdomains require premium")
	}
	if profile.HasSubdomain() {
		return "", apperrors.EK(apperrors.KindConflict, "error-subdomain-taken", "a subdomain is already registered")
	}
	if err := acc.Profiles.Update(ctx, profile.ID, relay.ProfileUpdate{Subdomain: &subdomain}); err != nil {
		return "", err
	}
	return subdomain, nil
}

func (s service) createAlias(ctx context.Context, token string, create relay.AliasCreate) error {
	acc := s.backend.Open(token)
	if create.Kind == relay.AliasKindCustom {
		address, ok := relay.NormalizeAliasAddress(create.Address)
		if !ok {
			return apperrors.EK(apperrors.KindInvalidInput, "error-alias-address-invalid", fmt.Sprintf("invalid alias address %q", create.Address))
		}
		create.Address = address
		profile, err := s.currentProfile(ctx, acc)
		if err != nil {
			return err
		}
		if !profile.HasPremium || !profile.HasSubdomain() {
			return apperrors.EK(apperrors.KindForbidden, "error-alias-custom-premium", "custom aliases require premium and a subdomain")
		}
	} else {
		create.Address = ""
	}
	return acc.Aliases().Create(ctx, create)
}

func (s service) updateAlias(ctx context.Context, token string, kind relay.AliasKind, id int64, update relay.AliasUpdate) error {
	router := s.backend.Open(token).Aliases()
	alias, err := router.Find(ctx, kind, id)
	if err != nil {
		return err
	}
	return router.Update(ctx, alias, update)
}

func (s service) deleteAlias(ctx context.Context, token string, kind relay.AliasKind, id int64) error {
	router := s.backend.Open(token).Aliases()
	alias, err := router.Find(ctx, kind, id)
	if err != nil {
		return err
	}
	return router.Delete(ctx, alias)
}
