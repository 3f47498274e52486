package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	module "github.com/louisbranch/relayweb/internal/services/web/module"
	"github.com/louisbranch/relayweb/internal/services/web/platform/httpx"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
)

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	AuthRequired     func(*http.Request) bool
	SignInURL        string
	PublicModules    []module.Module
	ProtectedModules []module.Module
}

// Compose mounts module groups on router. Protected modules are wrapped so
// a request without credentials is sent to the sign-in page.
func Compose(router chi.Router, input ComposeInput) error {
	if router == nil {
		return fmt.Errorf("router is required")
	}
	if input.AuthRequired == nil {
		input.AuthRequired = func(*http.Request) bool { return false }
	}
	seen := make(map[string]string)

	for _, feature := range input.ProtectedModules {
		if feature == nil {
			return fmt.Errorf("protected module is nil")
		}
		if err := mountProtectedModule(router, feature, seen, requireAuth(input.AuthRequired, input.SignInURL)); err != nil {
			return err
		}
	}

	// The root mount matches everything, so it is mounted after the other
	// public prefixes have been validated.
	var (
		root      module.Module
		rootMount module.Mount
	)
	for _, feature := range input.PublicModules {
		if feature == nil {
			return fmt.Errorf("public module is nil")
		}
		mount, prefix, err := resolveMount(feature)
		if err != nil {
			return err
		}
		if isProtectedPrefix(prefix) {
			return fmt.Errorf("module %q has protected prefix %q in public group", feature.ID(), prefix)
		}
		if prefix == routepath.Root {
			if root != nil {
				return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, root.ID())
			}
			root, rootMount = feature, mount
			continue
		}
		if err := mountModule(router, feature, mount, prefix, seen, nil); err != nil {
			return err
		}
	}
	if root != nil {
		if err := mountModule(router, root, rootMount, routepath.Root, seen, nil); err != nil {
			return err
		}
	}
	return nil
}

func mountModule(
	router chi.Router,
	feature module.Module,
	mount module.Mount,
	prefix string,
	seen map[string]string,
	wrap func(http.Handler) http.Handler,
) error {
	if previous, ok := seen[prefix]; ok {
		return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, previous)
	}
	seen[prefix] = feature.ID()

	handler := mount.Handler
	if wrap != nil {
		handler = wrap(handler)
	}
	router.Mount(prefix, handler)
	return nil
}

func mountProtectedModule(router chi.Router, feature module.Module, seen map[string]string, wrap func(http.Handler) http.Handler) error {
	mount, prefix, err := resolveMount(feature)
	if err != nil {
		return err
	}
	if !isProtectedPrefix(prefix) {
		return fmt.Errorf("module %q must mount under %s, got %q", feature.ID(), routepath.AppPrefix, prefix)
	}
	return mountModule(router, feature, mount, prefix, seen, wrap)
}

func isProtectedPrefix(prefix string) bool {
	return strings.HasPrefix(prefix, routepath.AppPrefix)
}

func resolveMount(feature module.Module) (module.Mount, string, error) {
	if feature == nil {
		return module.Mount{}, "", fmt.Errorf("module is nil")
	}
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if err := validatePrefix(mount.Prefix); err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q has invalid prefix %q: %w", feature.ID(), mount.Prefix, err)
	}
	if mount.Handler == nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, mount.Prefix, nil
}

// validatePrefix accepts "/" or a slash-led path without a trailing slash;
// the router serves both the bare prefix and everything below it.
func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if strings.TrimSpace(prefix) != prefix {
		return fmt.Errorf("prefix must not include surrounding whitespace")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("prefix must begin with /")
	}
	if prefix != routepath.Root && strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("prefix must not end with /")
	}
	if strings.ContainsAny(prefix, "{}*") {
		return fmt.Errorf("prefix must be static")
	}
	return nil
}

func requireAuth(authenticated func(*http.Request) bool, signInURL string) func(http.Handler) http.Handler {
	if strings.TrimSpace(signInURL) == "" {
		signInURL = routepath.Root
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			return http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authenticated(r) {
				httpx.WriteRedirect(w, r, signInURL)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
