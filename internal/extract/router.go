package extract

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Rule maps a domain pattern to an extractor identifier. HostSuffix matches
// the URL host right-anchored ("healthgrades.com" matches
// "www.healthgrades.com"); PathPrefix disambiguates hosts that serve both
// listing and profile layouts. First match wins.
type Rule struct {
	HostSuffix string `yaml:"host_suffix"`
	PathPrefix string `yaml:"path_prefix,omitempty"`
	Extractor  string `yaml:"extractor"`
}

// defaultRules is the built-in routing table. Adding a taxonomy is one rule
// row plus one extractor implementation; there are no type switches.
var defaultRules = []Rule{
	// Physician directories: search pages go through the 2-hop extractor,
	// individual profiles straight to profile extraction.
	{HostSuffix: "healthgrades.com", PathPrefix: "/usearch", Extractor: ExtractorListing},
	{HostSuffix: "healthgrades.com", Extractor: ExtractorProfileDir},
	{HostSuffix: "zocdoc.com", PathPrefix: "/search", Extractor: ExtractorListing},
	{HostSuffix: "zocdoc.com", Extractor: ExtractorProfileDir},
	{HostSuffix: "webmd.com", Extractor: ExtractorListing},
	{HostSuffix: "vitals.com", Extractor: ExtractorListing},

	// Therapist directories serve self-contained profile pages.
	{HostSuffix: "psychologytoday.com", Extractor: ExtractorProfileDir},
	{HostSuffix: "goodtherapy.org", Extractor: ExtractorProfileDir},
	{HostSuffix: "therapyden.com", Extractor: ExtractorProfileDir},

	// Organization sites: roster layouts by host hints.
	{HostSuffix: "embassy.org", Extractor: ExtractorEmbassy},
	{HostSuffix: "usembassy.gov", Extractor: ExtractorEmbassy},
	{HostSuffix: "teamsnap.com", Extractor: ExtractorYouthSports},
	{HostSuffix: "leagueapps.com", Extractor: ExtractorYouthSports},
	{HostSuffix: "sportsengine.com", Extractor: ExtractorYouthSports},
}

// Router dispatches a URL to the extractor its rule table names, falling
// through to the generic extractor for unmatched domains.
type Router struct {
	rules      []Rule
	extractors map[string]Extractor
	fallback   Extractor
}

// NewRouter builds a Router over the given extractor set, which must contain
// an entry for every identifier the rules reference plus ExtractorGeneric.
func NewRouter(rules []Rule, extractors map[string]Extractor) (*Router, error) {
	fallback, ok := extractors[ExtractorGeneric]
	if !ok {
		return nil, eris.New("router: generic extractor is required")
	}
	for _, r := range rules {
		if _, ok := extractors[r.Extractor]; !ok {
			return nil, eris.Errorf("router: rule for %q names unknown extractor %q", r.HostSuffix, r.Extractor)
		}
	}
	return &Router{rules: rules, extractors: extractors, fallback: fallback}, nil
}

// DefaultRules returns a copy of the built-in routing table.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// LoadRules parses a YAML rule file. Loaded rules are evaluated before the
// defaults they are appended to, so a file row can override a built-in.
func LoadRules(data []byte) ([]Rule, error) {
	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "router: parse rules")
	}
	for i, r := range doc.Rules {
		if r.HostSuffix == "" || r.Extractor == "" {
			return nil, eris.Errorf("router: rule %d missing host_suffix or extractor", i)
		}
	}
	return doc.Rules, nil
}

// Route returns the extractor for rawURL. Unparseable URLs and unmatched
// domains get the generic fallback.
func (r *Router) Route(rawURL string) Extractor {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return r.fallback
	}
	host := strings.ToLower(u.Hostname())

	for _, rule := range r.rules {
		if !hostMatches(host, rule.HostSuffix) {
			continue
		}
		if rule.PathPrefix != "" && !strings.HasPrefix(u.Path, rule.PathPrefix) {
			continue
		}
		return r.extractors[rule.Extractor]
	}

	zap.L().Debug("router: no rule matched, using generic", zap.String("host", host))
	return r.fallback
}

// categoryFallbacks picks a roster variant when no domain rule claims the
// URL but the request category implies an organization-site layout. The
// long tail of treatment-center and club sites can never be enumerated in
// the rule table.
var categoryFallbacks = map[model.Category]string{
	model.CategoryTreatmentCenters: ExtractorRoster,
	model.CategoryEmbassies:        ExtractorEmbassy,
	model.CategoryYouthSports:      ExtractorYouthSports,
}

// RouteFor routes like Route but, for unmatched domains, substitutes the
// category's roster variant where one exists before falling back to generic.
func (r *Router) RouteFor(rawURL string, cat model.Category) Extractor {
	ex := r.Route(rawURL)
	if ex != r.fallback {
		return ex
	}
	if name, ok := categoryFallbacks[cat]; ok {
		if variant, ok := r.extractors[name]; ok {
			return variant
		}
	}
	return r.fallback
}

// Resolve reports which extractor identifier the given rules would choose
// for rawURL under cat, without constructing extractor instances. Used by
// diagnostics; the pipeline goes through Router.RouteFor.
func Resolve(rules []Rule, rawURL string, cat model.Category) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ExtractorGeneric
	}
	host := strings.ToLower(u.Hostname())

	for _, rule := range rules {
		if !hostMatches(host, rule.HostSuffix) {
			continue
		}
		if rule.PathPrefix != "" && !strings.HasPrefix(u.Path, rule.PathPrefix) {
			continue
		}
		return rule.Extractor
	}
	if name, ok := categoryFallbacks[cat]; ok {
		return name
	}
	return ExtractorGeneric
}

// hostMatches right-anchors suffix on a label boundary so "grades.com" does
// not match "healthgrades.com".
func hostMatches(host, suffix string) bool {
	suffix = strings.ToLower(suffix)
	if host == suffix {
		return true
	}
	return strings.HasSuffix(host, "."+suffix)
}
