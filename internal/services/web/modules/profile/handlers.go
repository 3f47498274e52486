package profile

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/louisbranch/relayweb/internal/platform/logging"
	"github.com/louisbranch/relayweb/internal/services/web/analytics"
	module "github.com/louisbranch/relayweb/internal/services/web/module"
	apperrors "github.com/louisbranch/relayweb/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/relayweb/internal/services/web/platform/flash"
	"github.com/louisbranch/relayweb/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/relayweb/internal/services/web/platform/pagerender"
	"github.com/louisbranch/relayweb/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/relayweb/internal/services/web/platform/webctx"
	"github.com/louisbranch/relayweb/internal/services/web/relay"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
	"github.com/louisbranch/relayweb/internal/services/web/runtimeconfig"
)

// maxDescriptionLength matches the relay API's alias label limit.
const maxDescriptionLength = 50

type handlers struct {
	modulehandler.Base
	service    service
	config     runtimeconfig.Config
	dismissals module.ResolveDismissals
	observer   analytics.Observer
}

func newHandlers(s service, base modulehandler.Base, deps module.Dependencies) handlers {
	h := handlers{Base: base, service: s, config: deps.Config, dismissals: deps.Dismissals}
	if deps.Impressions != nil {
		h.observer = deps.Impressions
	}
	return h
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.loadPage(r.Context(), h.RequestToken(r))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.WriteError(w, r, err)
		return
	}

	switch state := state.(type) {
	case Loading:
		h.writeProfilePage(w, r, templ.NopComponent)
	case Unauthenticated:
		logging.FromContext(r.Context()).Debug("profile viewer is not signed in", zap.Error(state.Err))
		sessioncookie.Clear(w, r, h.RequestSchemePolicy())
		httpx.WriteRedirect(w, r, h.config.SignInURL)
	case Onboarding:
		r = webctx.WithViewerEmail(r, state.User.Email)
		h.writeProfilePage(w, r, onboardingView(state, h.config.MozmailDomain))
	case Steady:
		r = webctx.WithViewerEmail(r, state.User.Email)
		ctx, _, _ := pagerender.LocalizedContext(w, r)
		vc := viewContext{config: h.config, observer: h.observer}
		if h.dismissals != nil {
			if tracker := h.dismissals(w, r); tracker != nil {
				vc.dismissals = tracker
			}
		}
		h.writeProfilePage(w, r, dashboardView(ctx, vc, state))
	default:
		h.WriteError(w, r, apperrors.E(apperrors.KindUnknown, "unhandled profile page state"))
	}
}

func (h handlers) writeProfilePage(w http.ResponseWriter, r *http.Request, body templ.Component) {
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webi18n.T(loc, "profile-page-title"), http.StatusOK, body)
}

func (h handlers) handleOnboardingStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("step")))
	if err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error-onboarding-step-invalid", "onboarding step must be a number"))
		return
	}
	if err := h.service.setOnboardingStep(r.Context(), h.RequestToken(r), step); err != nil {
		h.mutationFailed(w, r, "advance onboarding", err)
		return
	}
	httpx.WriteSeeOther(w, r, routepath.AppProfile)
}

func (h handlers) handleOnboardingSubdomain(w http.ResponseWriter, r *http.Request) {
	subdomain, err := h.service.registerSubdomain(r.Context(), h.RequestToken(r), r.PostFormValue("subdomain"))
	if err != nil {
		h.mutationFailed(w, r, "register onboarding subdomain", err)
		return
	}
	h.WriteFlashNotice(w, r, flashnotice.NoticeSuccess("modal-domain-register-success", subdomain))
	if raw := strings.TrimSpace(r.PostFormValue("step")); raw != "" {
		if step, err := strconv.Atoi(raw); err == nil {
			if err := h.service.setOnboardingStep(r.Context(), h.RequestToken(r), step); err != nil {
				logging.FromContext(r.Context()).Warn("advance onboarding after subdomain", zap.Error(err))
			}
		}
	}
	httpx.WriteSeeOther(w, r, routepath.AppProfile)
}

func (h handlers) handleSubdomain(w http.ResponseWriter, r *http.Request) {
	subdomain, err := h.service.registerSubdomain(r.Context(), h.RequestToken(r), r.PostFormValue("subdomain"))
	if err != nil {
		h.mutationFailed(w, r, "register subdomain", err)
		return
	}
	h.WriteFlashNotice(w, r, flashnotice.NoticeSuccess("modal-domain-register-success", subdomain))
	httpx.WriteSeeOther(w, r, routepath.AppProfile)
}

func (h handlers) handleAliasCreate(w http.ResponseWriter, r *http.Request) {
	kind := relay.AliasKindRandom
	if raw := strings.TrimSpace(r.PostFormValue("kind")); raw != "" {
		parsed, ok := relay.ParseAliasKind(raw)
		if !ok {
			h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error-alias-kind-invalid", "unknown alias kind"))
			return
		}
		kind = parsed
	}
	create := relay.AliasCreate{Kind: kind, Address: r.PostFormValue("address")}
	if err := h.service.createAlias(r.Context(), h.RequestToken(r), create); err != nil {
		h.mutationFailed(w, r, "create alias", err)
		return
	}
	httpx.WriteSeeOther(w, r, routepath.AppProfile)
}

func (h handlers) handleAliasUpdate(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := aliasRoute(r)
	if !ok {
		h.WriteNotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error-alias-form", "failed to parse alias form"))
		return
	}
	update, err := aliasUpdateFromForm(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if err := h.service.updateAlias(r.Context(), h.RequestToken(r), kind, id, update); err != nil {
		h.mutationFailed(w, r, "update alias", err)
		return
	}
	httpx.WriteSeeOther(w, r, routepath.AppProfile)
}

func (h handlers) handleAliasDelete(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := aliasRoute(r)
	if !ok {
		h.WriteNotFound(w, r)
		return
	}
	if err := h.service.deleteAlias(r.Context(), h.RequestToken(r), kind, id); err != nil {
		h.mutationFailed(w, r, "delete alias", err)
		return
	}
	httpx.WriteSeeOther(w, r, routepath.AppProfile)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

// mutationFailed logs err and sends the viewer back without a notice.
// Signed-out viewers go to sign-in and unknown aliases render not found.
func (h handlers) mutationFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case apperrors.Is(err, apperrors.KindUnauthorized):
		httpx.WriteRedirect(w, r, h.config.SignInURL)
	case apperrors.Is(err, apperrors.KindNotFound):
		h.WriteNotFound(w, r)
	default:
		logging.FromContext(r.Context()).Warn("profile mutation failed", zap.String("op", op), zap.Error(err))
		httpx.WriteSeeOther(w, r, routepath.AppProfile)
	}
}

func aliasRoute(r *http.Request) (relay.AliasKind, int64, bool) {
	kind, ok := relay.ParseAliasKind(chi.URLParam(r, "kind"))
	if !ok {
		return kind, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return kind, 0, false
	}
	return kind, id, true
}

func aliasUpdateFromForm(r *http.Request) (relay.AliasUpdate, error) {
	var update relay.AliasUpdate
	if values, ok := r.PostForm["enabled"]; ok && len(values) > 0 {
		enabled, err := strconv.ParseBool(strings.TrimSpace(values[0]))
		if err != nil {
			return relay.AliasUpdate{}, apperrors.EK(apperrors.KindInvalidInput, "error-alias-enabled-invalid", "enabled must be a boolean")
		}
		update.Enabled = &enabled
	}
	if values, ok := r.PostForm["description"]; ok && len(values) > 0 {
		description := strings.TrimSpace(values[0])
		if len([]rune(description)) > maxDescriptionLength {
			return relay.AliasUpdate{}, apperrors.EK(apperrors.KindInvalidInput, "error-alias-description-too-long", "description is too long")
		}
		update.Description = &description
	}
	if update.Enabled == nil && update.Description == nil {
		return relay.AliasUpdate{}, apperrors.EK(apperrors.KindInvalidInput, "error-alias-update-empty", "nothing to update")
	}
	return update, nil
}
