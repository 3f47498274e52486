// Package memory is an in-process accessor backend for local development
// and tests. It enforces the same write rules the relay API does.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/louisbranch/relayweb/internal/services/web/accessor"
	apperrors "github.com/louisbranch/relayweb/internal/services/web/platform/errors"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
)

// Account is the data one API token can see.
type Account struct {
	Profile relay.Profile
	User    relay.User
	Random  []relay.Alias
	Custom  []relay.Alias
}

// Call records one mutation for inspection in tests.
type Call struct {
	Op   string
	Kind relay.AliasKind
	ID   int64
}

// Store holds accounts keyed by API token.
type Store struct {
	mu       sync.Mutex
	domain   string
	now      func() time.Time
	nextID   int64
	accounts map[string]*Account
	premium  *relay.PremiumCountryData
	calls    []Call
}

// Option configures a Store.
type Option func(*Store)

// WithDomain sets the shared mail domain used to build full addresses.
func WithDomain(domain string) Option {
	return func(s *Store) { s.domain = domain }
}

// WithClock overrides the alias creation clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		domain:   "mozmail.com",
		now:      time.Now,
		nextID:   1000,
		accounts: map[string]*Account{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Seed installs account under token, replacing any previous one.
func (s *Store) Seed(token string, account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range account.Random {
		account.Random[i].Kind = relay.AliasKindRandom
	}
	for i := range account.Custom {
		account.Custom[i].Kind = relay.AliasKindCustom
	}
	copied := account
	copied.Random = append([]relay.Alias(nil), account.Random...)
	copied.Custom = append([]relay.Alias(nil), account.Custom...)
	s.accounts[token] = &copied
}

// SetPremiumCountries sets the availability every viewer sees.
func (s *Store) SetPremiumCountries(data *relay.PremiumCountryData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data == nil {
		s.premium = nil
		return
	}
	copied := *data
	s.premium = &copied
}

// Account returns a copy of the account stored under token.
func (s *Store) Account(token string) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[token]
	if !ok {
		return Account{}, false
	}
	copied := *account
	copied.Random = append([]relay.Alias(nil), account.Random...)
	copied.Custom = append([]relay.Alias(nil), account.Custom...)
	return copied, true
}

// Calls returns the mutations issued so far.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Open implements accessor.Backend.
func (s *Store) Open(token string) accessor.Accessors {
	v := viewer{store: s, token: strings.TrimSpace(token)}
	return accessor.Accessors{
		Profiles:         profiles{v},
		Users:            users{v},
		RandomAliases:    aliases{viewer: v, kind: relay.AliasKindRandom},
		CustomAliases:    aliases{viewer: v, kind: relay.AliasKindCustom},
		PremiumCountries: premiumCountries{v},
	}
}

type viewer struct {
	store *Store
	token string
}

// withAccount runs fn with the store locked and the viewer's account resolved.
func (v viewer) withAccount(ctx context.Context, fn func(*Account) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	account, ok := v.store.accounts[v.token]
	if v.token == "" || !ok {
		return apperrors.E(apperrors.KindUnauthorized, "invalid api token")
	}
	return fn(account)
}

type profiles struct{ viewer }

func (p profiles) List(ctx context.Context) ([]relay.Profile, error) {
	var out []relay.Profile
	err := p.withAccount(ctx, func(a *Account) error {
		out = []relay.Profile{a.Profile}
		return nil
	})
	return out, err
}

func (p profiles) Update(ctx context.Context, id int64, update relay.ProfileUpdate) error {
	return p.withAccount(ctx, func(a *Account) error {
		if a.Profile.ID != id {
			return apperrors.E(apperrors.KindNotFound, fmt.Sprintf("profile %d not found", id))
		}
		if update.OnboardingState != nil && *update.OnboardingState < a.Profile.OnboardingState {
			return apperrors.EK(apperrors.KindInvalidInput, "error-onboarding-step-invalid", "onboarding state cannot move backwards")
		}
		if update.Subdomain != nil {
			if err := p.store.claimSubdomain(a, *update.Subdomain); err != nil {
				return err
			}
		}
		if update.OnboardingState != nil {
			a.Profile.OnboardingState = *update.OnboardingState
		}
		p.store.calls = append(p.store.calls, Call{Op: "profile.update", ID: id})
		return nil
	})
}

func (s *Store) claimSubdomain(a *Account, raw string) error {
	subdomain, ok := relay.NormalizeSubdomain(raw)
	if !ok {
		return apperrors.EK(apperrors.KindInvalidInput, "error-subdomain-invalid", "invalid subdomain")
	}
	if !a.Profile.HasPremium {
		return apperrors.E(apperrors.KindForbidden, "subdomains require premium")
	}
	if a.Profile.HasSubdomain() {
		return apperrors.E(apperrors.KindConflict, "subdomain already set")
	}
	for _, other := range s.accounts {
		if other.Profile.SubdomainValue() == subdomain {
			return apperrors.E(apperrors.KindConflict, "subdomain taken")
		}
	}
	a.Profile.Subdomain = &subdomain
	return nil
}

type users struct{ viewer }

func (u users) List(ctx context.Context) ([]relay.User, error) {
	var out []relay.User
	err := u.withAccount(ctx, func(a *Account) error {
		out = []relay.User{a.User}
		return nil
	})
	return out, err
}

type aliases struct {
	viewer
	kind relay.AliasKind
}

func (al aliases) collection(a *Account) *[]relay.Alias {
	if al.kind == relay.AliasKindCustom {
		return &a.Custom
	}
	return &a.Random
}

func (al aliases) List(ctx context.Context) ([]relay.Alias, error) {
	var out []relay.Alias
	err := al.withAccount(ctx, func(a *Account) error {
		out = append([]relay.Alias(nil), *al.collection(a)...)
		return nil
	})
	return out, err
}

func (al aliases) Create(ctx context.Context, create relay.AliasCreate) error {
	return al.withAccount(ctx, func(a *Account) error {
		alias := relay.Alias{
			Kind:      al.kind,
			Enabled:   true,
			CreatedAt: al.store.now().UTC(),
		}
		switch al.kind {
		case relay.AliasKindCustom:
			if !a.Profile.HasSubdomain() {
				return apperrors.EK(apperrors.KindForbidden, "error-alias-custom-requires-subdomain", "custom aliases require a subdomain")
			}
			address, ok := relay.NormalizeAliasAddress(create.Address)
			if !ok {
				return apperrors.EK(apperrors.KindInvalidInput, "error-alias-address-invalid", "invalid alias address")
			}
			for _, existing := range a.Custom {
				if existing.Address == address {
					return apperrors.E(apperrors.KindConflict, "alias address already exists")
				}
			}
			alias.Address = address
			alias.Domain = a.Profile.SubdomainValue() + "." + al.store.domain
		default:
			alias.Address = strings.ToLower(ulid.Make().String()[16:])
			alias.Domain = al.store.domain
		}
		al.store.nextID++
		alias.ID = al.store.nextID
		alias.FullAddress = alias.Address + "@" + alias.Domain
		col := al.collection(a)
		*col = append(*col, alias)
		al.store.calls = append(al.store.calls, Call{Op: "alias.create", Kind: al.kind, ID: alias.ID})
		return nil
	})
}

func (al aliases) Update(ctx context.Context, id int64, update relay.AliasUpdate) error {
	return al.withAccount(ctx, func(a *Account) error {
		col := al.collection(a)
		for i := range *col {
			if (*col)[i].ID != id {
				continue
			}
			if update.Enabled != nil {
				(*col)[i].Enabled = *update.Enabled
			}
			if update.Description != nil {
				(*col)[i].Description = strings.TrimSpace(*update.Description)
			}
			al.store.calls = append(al.store.calls, Call{Op: "alias.update", Kind: al.kind, ID: id})
			return nil
		}
		return apperrors.EK(apperrors.KindNotFound, "error-alias-not-found", fmt.Sprintf("%s alias %d not found", al.kind, id))
	})
}

func (al aliases) Delete(ctx context.Context, id int64) error {
	return al.withAccount(ctx, func(a *Account) error {
		col := al.collection(a)
		for i := range *col {
			if (*col)[i].ID != id {
				continue
			}
			*col = append((*col)[:i], (*col)[i+1:]...)
			al.store.calls = append(al.store.calls, Call{Op: "alias.delete", Kind: al.kind, ID: id})
			return nil
		}
		return apperrors.EK(apperrors.KindNotFound, "error-alias-not-found", fmt.Sprintf("%s alias %d not found", al.kind, id))
	})
}

type premiumCountries struct{ viewer }

// Load does not require a known token; availability is public data.
func (p premiumCountries) Load(ctx context.Context) (*relay.PremiumCountryData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	if p.store.premium == nil {
		return nil, nil
	}
	copied := *p.store.premium
	return &copied, nil
}
