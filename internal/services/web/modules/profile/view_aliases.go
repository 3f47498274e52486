package profile

import (
	"context"

	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/relayweb/internal/services/web/templates"
)

func aliasList(ctx context.Context, h *webtemplates.HTML, profile relay.Profile, aliases []relay.Alias) {
	loc := webi18n.FromContext(ctx)
	h.Open("section", webtemplates.A("id", "aliases"), webtemplates.Class("alias-list"))
	h.Elem("h2", webi18n.T(loc, "profile-aliases-headline"))
	aliasCreateControls(h, loc, profile)
	if len(aliases) == 0 {
		h.Elem("p", webi18n.T(loc, "profile-aliases-empty"), webtemplates.Class("alias-list-empty"))
		h.Close("section")
		return
	}
	h.Open("ul", webtemplates.Class("alias-items"))
	for _, alias := range aliases {
		aliasItem(h, loc, alias)
	}
	h.Close("ul")
	h.Close("section")
}

func aliasCreateControls(h *webtemplates.HTML, loc webi18n.Localizer, profile relay.Profile) {
	h.Open("div", webtemplates.Class("alias-create"))
	h.Open("form", webtemplates.A("method", "post"), webtemplates.A("action", routepath.AppProfileAliases))
	h.Void("input", webtemplates.A("type", "hidden"), webtemplates.A("name", "kind"), webtemplates.A("value", relay.AliasKindRandom.String()))
	h.Elem("button", webi18n.T(loc, "profile-label-generate-new-alias"), webtemplates.A("type", "submit"), webtemplates.Class("button-primary"))
	h.Close("form")
	if profile.HasPremium && profile.HasSubdomain() {
		h.Open("form", webtemplates.A("method", "post"), webtemplates.A("action", routepath.AppProfileAliases), webtemplates.Class("alias-create-custom"))
		h.Void("input", webtemplates.A("type", "hidden"), webtemplates.A("name", "kind"), webtemplates.A("value", relay.AliasKindCustom.String()))
		h.Elem("label", webi18n.T(loc, "profile-label-custom-address"), webtemplates.A("for", "custom-address"))
		h.Void("input", webtemplates.A("type", "text"), webtemplates.A("id", "custom-address"), webtemplates.A("name", "address"), webtemplates.Flag("required"))
		h.Elem("span", "@"+profile.SubdomainValue(), webtemplates.Class("alias-create-suffix"))
		h.Elem("button", webi18n.T(loc, "profile-label-create-custom"), webtemplates.A("type", "submit"))
		h.Close("form")
	}
	h.Close("div")
}

func aliasItem(h *webtemplates.HTML, loc webi18n.Localizer, alias relay.Alias) {
	state, toggleLabel, toggleValue := "profile-alias-state-disabled", "profile-alias-toggle-enable", "true"
	if alias.Enabled {
		state, toggleLabel, toggleValue = "profile-alias-state-enabled", "profile-alias-toggle-disable", "false"
	}
	h.Open("li", webtemplates.Class("alias", "alias-"+alias.Kind.String(), stateClass(alias.Enabled)),
		webtemplates.A("data-alias-id", formatID(alias.ID)))
	h.Open("div", webtemplates.Class("alias-main"))
	h.Elem("span", alias.FullAddress, webtemplates.Class("alias-address"))
	h.Elem("span", webi18n.T(loc, state), webtemplates.Class("alias-state"))
	h.Close("div")

	h.Open("div", webtemplates.Class("alias-stats"))
	h.Elem("span", webi18n.T(loc, "profile-alias-stat-blocked", alias.NumBlocked))
	h.Elem("span", webi18n.T(loc, "profile-alias-stat-forwarded", alias.NumForwarded))
	if !alias.CreatedAt.IsZero() {
		h.Elem("span", webi18n.T(loc, "profile-alias-created", alias.CreatedAt.Format("2006-01-02")), webtemplates.Class("alias-created"))
	}
	h.Close("div")

	update := routepath.AppProfileAlias(alias.Kind, alias.ID)
	h.Open("form", webtemplates.A("method", "post"), webtemplates.A("action", update), webtemplates.Class("alias-label-form"))
	h.Void("input", webtemplates.A("type", "text"), webtemplates.A("name", "description"), webtemplates.A("value", alias.Description),
		webtemplates.A("placeholder", webi18n.T(loc, "profile-alias-label-placeholder")), webtemplates.A("maxlength", "50"))
	h.Elem("button", webi18n.T(loc, "profile-alias-save"), webtemplates.A("type", "submit"))
	h.Close("form")

	h.Open("form", webtemplates.A("method", "post"), webtemplates.A("action", update), webtemplates.Class("alias-toggle-form"))
	h.Void("input", webtemplates.A("type", "hidden"), webtemplates.A("name", "enabled"), webtemplates.A("value", toggleValue))
	h.Elem("button", webi18n.T(loc, toggleLabel), webtemplates.A("type", "submit"))
	h.Close("form")

	h.Open("form", webtemplates.A("method", "post"), webtemplates.A("action", routepath.AppProfileAliasDelete(alias.Kind, alias.ID)), webtemplates.Class("alias-delete-form"))
	h.Elem("button", webi18n.T(loc, "profile-alias-delete"), webtemplates.A("type", "submit"), webtemplates.Class("button-danger"))
	h.Close("form")
	h.Close("li")
}

func stateClass(enabled bool) string {
	if enabled {
		return "is-enabled"
	}
	return "is-disabled"
}
