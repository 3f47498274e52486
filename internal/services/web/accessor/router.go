package accessor

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/relayweb/internal/services/web/platform/errors"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
)

// AliasRouter sends alias operations to the collection matching the
// alias kind. It never touches the other collection.
type AliasRouter struct {
	Random AliasAccessor
	Custom AliasAccessor
}

// For returns the accessor backing kind.
func (r AliasRouter) For(kind relay.AliasKind) (AliasAccessor, error) {
	var target AliasAccessor
	switch kind {
	case relay.AliasKindRandom:
		target = r.Random
	case relay.AliasKindCustom:
		target = r.Custom
	default:
		return nil, apperrors.EK(apperrors.KindInvalidInput, "error-alias-kind-invalid", fmt.Sprintf("unknown alias kind %d", kind))
	}
	if target == nil {
		return nil, apperrors.E(apperrors.KindUnavailable, fmt.Sprintf("%s alias accessor is not configured", kind))
	}
	return target, nil
}

// Find looks up one alias by kind and id.
func (r AliasRouter) Find(ctx context.Context, kind relay.AliasKind, id int64) (relay.Alias, error) {
	target, err := r.For(kind)
	if err != nil {
		return relay.Alias{}, err
	}
	aliases, err := target.List(ctx)
	if err != nil {
		return relay.Alias{}, fmt.Errorf("list %s aliases: %w", kind, err)
	}
	for _, alias := range aliases {
		if alias.ID == id {
			alias.Kind = kind
			return alias, nil
		}
	}
	return relay.Alias{}, apperrors.EK(apperrors.KindNotFound, "error-alias-not-found", fmt.Sprintf("%s alias %d not found", kind, id))
}

// Create adds an alias to the collection named by create.Kind.
func (r AliasRouter) Create(ctx context.Context, create relay.AliasCreate) error {
	target, err := r.For(create.Kind)
	if err != nil {
		return err
	}
	return target.Create(ctx, create)
}

// Update applies update to alias in its own collection.
func (r AliasRouter) Update(ctx context.Context, alias relay.Alias, update relay.AliasUpdate) error {
	target, err := r.For(alias.Kind)
	if err != nil {
		return err
	}
	return target.Update(ctx, alias.ID, update)
}

// Delete removes alias from its own collection.
func (r AliasRouter) Delete(ctx context.Context, alias relay.Alias) error {
	target, err := r.For(alias.Kind)
	if err != nil {
		return err
	}
	return target.Delete(ctx, alias.ID)
}
