package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/validate"
)

// titleSeparators split a <title> into segments; the organization name is
// usually the last segment ("Dr. Jane Roe | Sunrise Clinic").
var titleSeparators = []string{" | ", " - ", " — ", " – ", " :: "}

// titleBoilerplate are segments that never name the organization.
var titleBoilerplate = []string{
	"home", "homepage", "welcome", "official site", "official website",
	"about", "about us", "our team", "staff", "contact", "contact us",
}

// OrganizationName derives the affiliated organization from a page. Attempts
// run in order until one candidate passes the organization validator:
// JSON-LD organization blocks, og:site_name, the <title> with boilerplate
// segments stripped, the most prominent heading, and finally the domain name
// humanized. All attempts failing leaves the organization empty rather than
// guessing.
func OrganizationName(page model.FetchedPage) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return orgFromDomain(page.URL)
	}

	// (a) structured metadata
	if _, orgs := parseJSONLD(doc); len(orgs) > 0 {
		for _, o := range orgs {
			if validate.PlausibleOrganizationName(o.Name) {
				return o.Name
			}
		}
	}
	if siteName, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		siteName = strings.TrimSpace(siteName)
		if validate.PlausibleOrganizationName(siteName) {
			return siteName
		}
	}

	// (b) title tag, boilerplate suffixes stripped
	title := page.Title
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if cand := orgFromTitle(title); cand != "" {
		return cand
	}

	// (c) most prominent heading
	for _, sel := range []string{"h1", "header h2", ".site-title", "#logo"} {
		h := strings.TrimSpace(doc.Find(sel).First().Text())
		if h != "" && validate.PlausibleOrganizationName(h) && !looksLikePageHeading(h) {
			return h
		}
	}

	// (d) humanized domain
	return orgFromDomain(page.URL)
}

// orgFromTitle picks the best title segment. The last segment is preferred
// because sites put the page subject first and the site name last.
func orgFromTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	segments := []string{title}
	for _, sep := range titleSeparators {
		if strings.Contains(title, sep) {
			segments = strings.Split(title, sep)
			break
		}
	}

	for i := len(segments) - 1; i >= 0; i-- {
		seg := strings.TrimSpace(segments[i])
		if seg == "" || isTitleBoilerplate(seg) {
			continue
		}
		if validate.PlausibleOrganizationName(seg) {
			return seg
		}
	}
	return ""
}

func isTitleBoilerplate(seg string) bool {
	lower := strings.ToLower(seg)
	for _, b := range titleBoilerplate {
		if lower == b {
			return true
		}
	}
	return false
}

// looksLikePageHeading filters h1 text that describes the page rather than
// the organization ("Meet Our Team", "Find a Doctor").
func looksLikePageHeading(h string) bool {
	lower := strings.ToLower(h)
	for _, p := range []string{"meet ", "our team", "our staff", "find a", "welcome to", "search"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

var titleCaser = cases.Title(language.AmericanEnglish)

// orgFromDomain humanizes a hostname: "sunrise-treatment.org" becomes
// "Sunrise Treatment". Registrable-suffix and www stripping only; anything
// failing the validator yields "".
func orgFromDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")

	// Take the label left of the public suffix: the registrable name for
	// both "sunrise-treatment.org" and "profiles.healthgrades.com".
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return ""
	}
	base := parts[len(parts)-2]
	if len(parts) >= 3 && len(base) <= 3 {
		// host like clinic.co.uk
		base = parts[len(parts)-3]
	}

	words := strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' })
	name := titleCaser.String(strings.Join(words, " "))
	if !validate.PlausibleOrganizationName(name) {
		return ""
	}
	return name
}
