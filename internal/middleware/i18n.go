package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// Response locales. English is first and wins when nothing else matches.
var supportedLocales = []language.Tag{
	language.English,
	language.Nepali,
	language.Hindi,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// Countries whose donors get a local language when they send no preference.
var countryLocales = map[string]string{
	"NP": "ne",
	"IN": "hi",
}

// Headers set by CDNs and proxies that already know the client country.
var countryHeaders = []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N stores the response locale and the client country in the request
// context. The country defaults the blood-bank directory filter.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	fallback := "en"
	if strings.TrimSpace(defaultLocale) != "" {
		fallback = matchLocale(defaultLocale)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			locale := detectLocale(r, fallback, country)

			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, country)
			}
			w.Header().Set("Content-Language", locale)
			w.Header().Add("Vary", "Accept-Language")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// detectLocale picks, in order: X-Locale, Accept-Language, the country's
// language, fallback. A known country outside countryLocales means English.
func detectLocale(r *http.Request, fallback, country string) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		return matchLocale(v)
	}
	if v := strings.TrimSpace(r.Header.Get("Accept-Language")); v != "" {
		if tags, _, err := language.ParseAcceptLanguage(v); err == nil && len(tags) > 0 {
			_, idx, _ := localeMatcher.Match(tags...)
			return baseOf(supportedLocales[idx])
		}
	}
	if country != "" {
		if loc, ok := countryLocales[country]; ok {
			return loc
		}
		return "en"
	}
	if fallback == "" {
		return "en"
	}
	return fallback
}

func matchLocale(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return "en"
	}
	_, idx, _ := localeMatcher.Match(tag)
	return baseOf(supportedLocales[idx])
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// ResolveCountry returns an upper-case ISO country code for the request or
// "". Proxy headers win over an explicit language region, which wins over
// GeoIP on the remote address.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	for _, key := range countryHeaders {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	for _, key := range []string{"X-Locale", "Accept-Language"} {
		if region := explicitRegion(r.Header.Get(key)); region != "" {
			return region
		}
	}
	if lookup == nil {
		return ""
	}
	ip := remoteHost(r)
	if ip == "" {
		return ""
	}
	country, err := lookup(ip)
	if err != nil {
		return ""
	}
	return strings.ToUpper(country)
}

// explicitRegion returns the region subtag of the first language in header
// when the client spelled it out ("en-GB"), not when it is only inferred.
func explicitRegion(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	region, conf := tags[0].Region()
	if conf != language.Exact {
		return ""
	}
	return region.String()
}

// remoteHost strips the port from RemoteAddr. chi's RealIP runs earlier in
// the chain and has already applied forwarding headers.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}

// LanguageFromContext is LocaleFromContext as a language tag, for message
// printers.
func LanguageFromContext(ctx context.Context) language.Tag {
	tag, err := language.Parse(LocaleFromContext(ctx))
	if err != nil {
		return language.English
	}
	return tag
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}
