package accessor

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// ClientRegionHeader is set by the edge load balancer to the viewer's
// ISO country code.
const ClientRegionHeader = "X-Client-Region"

// maxRegionLanguages bounds how many preferred languages are forwarded, which
// also bounds the number of runtime data cache entries.
const maxRegionLanguages = 3

// Region holds the viewer signals the relay API derives premium
// availability from.
type Region struct {
	// Country is an upper-case ISO 3166 code, or "" when the edge did not
	// report one.
	Country string
	// Languages are the viewer's preferred languages, most preferred first.
	Languages []language.Tag
}

type regionKey struct{}

// RegionFromRequest reads the region signals of r.
func RegionFromRequest(r *http.Request) Region {
	if r == nil {
		return Region{}
	}
	region := Region{Country: normalizeCountry(r.Header.Get(ClientRegionHeader))}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err == nil {
		for _, tag := range tags {
			if tag == language.Und {
				continue
			}
			region.Languages = append(region.Languages, tag)
			if len(region.Languages) == maxRegionLanguages {
				break
			}
		}
	}
	return region
}

// WithRegion stores region on ctx.
func WithRegion(ctx context.Context, region Region) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, regionKey{}, region)
}

// RegionFrom returns the region stored by WithRegion, or the zero Region.
func RegionFrom(ctx context.Context) Region {
	if ctx == nil {
		return Region{}
	}
	region, _ := ctx.Value(regionKey{}).(Region)
	return region
}

// AcceptLanguage renders the languages as an Accept-Language value.
func (r Region) AcceptLanguage() string {
	parts := make([]string, 0, len(r.Languages))
	for _, tag := range r.Languages {
		parts = append(parts, tag.String())
	}
	return strings.Join(parts, ", ")
}

// Key identifies the region for caching.
func (r Region) Key() string {
	return r.Country + "|" + r.AcceptLanguage()
}

func normalizeCountry(raw string) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if len(raw) != 2 {
		return ""
	}
	for _, c := range raw {
		if c < 'A' || c > 'Z' {
			return ""
		}
	}
	return raw
}
