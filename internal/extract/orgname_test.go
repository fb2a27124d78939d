package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestOrganizationName_JSONLDFirst(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{"@type": "MedicalOrganization", "name": "Children's National"}</script>
<meta property="og:site_name" content="Some Other Site">
<title>Our Team | Different Name</title>
</head><body></body></html>`

	got := OrganizationName(model.FetchedPage{URL: "https://childrens.org/team", HTML: html})
	assert.Equal(t, "Children's National", got)
}

func TestOrganizationName_OGSiteName(t *testing.T) {
	html := `<html><head>
<meta property="og:site_name" content="Sunrise Treatment Center">
<title>Staff</title>
</head><body></body></html>`

	got := OrganizationName(model.FetchedPage{URL: "https://sunrise.org/staff", HTML: html})
	assert.Equal(t, "Sunrise Treatment Center", got)
}

func TestOrganizationName_TitleLastSegment(t *testing.T) {
	html := `<html><head><title>Dr. Jane Roe | Sunrise Counseling</title></head><body></body></html>`

	got := OrganizationName(model.FetchedPage{URL: "https://sunrisecounseling.com/jane", HTML: html})
	assert.Equal(t, "Sunrise Counseling", got)
}

func TestOrganizationName_TitleBoilerplateStripped(t *testing.T) {
	html := `<html><head><title>Sunrise Counseling - Our Team</title></head><body></body></html>`

	got := OrganizationName(model.FetchedPage{URL: "https://sunrisecounseling.com/team", HTML: html})
	assert.Equal(t, "Sunrise Counseling", got)
}

func TestOrganizationName_HeadingFallback(t *testing.T) {
	html := `<html><head><title></title></head><body><h1>Embassy of France</h1></body></html>`

	got := OrganizationName(model.FetchedPage{URL: "https://franceintheus.org/staff", HTML: html})
	assert.Equal(t, "Embassy of France", got)
}

func TestOrganizationName_PageHeadingRejected(t *testing.T) {
	// "Meet Our Team" is a page heading, not an organization; the domain
	// humanizer is the final fallback.
	html := `<html><head><title></title></head><body><h1>Meet Our Team</h1></body></html>`

	got := OrganizationName(model.FetchedPage{URL: "https://sunrise-treatment.org/team", HTML: html})
	assert.Equal(t, "Sunrise Treatment", got)
}

func TestOrganizationName_CopyrightBoilerplateNeverWins(t *testing.T) {
	html := `<html><head><title>© 2024 All Rights Reserved</title></head>
<body><h1>© 2024 All Rights Reserved</h1></body></html>`

	got := OrganizationName(model.FetchedPage{URL: "https://sunrise-treatment.org/x", HTML: html})
	assert.Equal(t, "Sunrise Treatment", got)
}

func TestOrgFromDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://sunrise-treatment.org/team", "Sunrise Treatment"},
		{"https://www.brightpath.com/about", "Brightpath"},
		{"https://profiles.healthgrades.com/dr-x", "Healthgrades"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, orgFromDomain(tt.url), "url: %s", tt.url)
	}
}
