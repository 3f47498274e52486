// Package accessor defines the contracts the dashboard uses to read and
// mutate the viewer's relay data, and the snapshot type reads resolve to.
package accessor

import (
	"context"

	"github.com/louisbranch/relayweb/internal/services/web/relay"
)

// ProfileAccessor reads and updates the viewer's profiles. The relay API
// returns a one-element list for a signed-in viewer.
type ProfileAccessor interface {
	List(ctx context.Context) ([]relay.Profile, error)
	Update(ctx context.Context, id int64, update relay.ProfileUpdate) error
}

// UserAccessor reads the viewer's user records.
type UserAccessor interface {
	List(ctx context.Context) ([]relay.User, error)
}

// AliasAccessor manages one alias collection.
type AliasAccessor interface {
	List(ctx context.Context) ([]relay.Alias, error)
	Create(ctx context.Context, create relay.AliasCreate) error
	Update(ctx context.Context, id int64, update relay.AliasUpdate) error
	Delete(ctx context.Context, id int64) error
}

// PremiumCountriesAccessor loads premium availability for the viewer's
// country. A nil result means availability is unknown.
type PremiumCountriesAccessor interface {
	Load(ctx context.Context) (*relay.PremiumCountryData, error)
}

// Accessors groups the accessors scoped to one viewer.
type Accessors struct {
	Profiles         ProfileAccessor
	Users            UserAccessor
	RandomAliases    AliasAccessor
	CustomAliases    AliasAccessor
	PremiumCountries PremiumCountriesAccessor
}

// Aliases returns a router over the two alias collections.
func (a Accessors) Aliases() AliasRouter {
	return AliasRouter{Random: a.RandomAliases, Custom: a.CustomAliases}
}

// Backend opens accessors authenticated with a viewer's API token. An
// empty token yields accessors that fail with an unauthorized error.
type Backend interface {
	Open(token string) Accessors
}
