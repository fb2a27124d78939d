package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

const profileJSONLD = `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Physician",
  "name": "Dr. Sarah Johnson",
  "jobTitle": "Pediatrician, MD",
  "telephone": "(202) 555-1234",
  "worksFor": {"@type": "MedicalOrganization", "name": "Children's National"},
  "url": "https://www.healthgrades.com/physician/dr-sarah-johnson"
}
</script>
</head><body><h1>Dr. Sarah Johnson</h1></body></html>`

func TestProfileDir_JSONLD(t *testing.T) {
	e := NewProfileDirExtractor()
	page := model.FetchedPage{
		URL:    "https://www.healthgrades.com/physician/dr-sarah-johnson",
		HTML:   profileJSONLD,
		Status: model.FetchOK,
	}

	recs := e.Extract(context.Background(), page, model.CategoryPediatricians)
	require.Len(t, recs, 1)
	assert.Equal(t, "Dr. Sarah Johnson", recs[0].RawName)
	assert.Equal(t, "Pediatrician, MD", recs[0].RawTitle)
	assert.Equal(t, "Children's National", recs[0].RawOrganization)
	assert.Equal(t, "(202) 555-1234", recs[0].Phone)
	assert.Equal(t, "https://www.healthgrades.com/physician/dr-sarah-johnson", recs[0].ProfileURL)
	assert.Equal(t, model.CategoryPediatricians, recs[0].Category)
}

func TestProfileDir_JSONLDGraphWithMultiplePersons(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
{"@graph": [
  {"@type": "Person", "name": "Jane Roe", "jobTitle": "Psychologist"},
  {"@type": "Person", "name": "Emily Tran", "jobTitle": "Therapist"},
  {"@type": "Organization", "name": "Sunrise Counseling"}
]}
</script></head><body></body></html>`

	e := NewProfileDirExtractor()
	recs := e.Extract(context.Background(), model.FetchedPage{URL: "https://x.com", HTML: html}, model.CategoryPsychologists)
	require.Len(t, recs, 2)
	assert.Equal(t, "Jane Roe", recs[0].RawName)
	// Org block backfills persons that carry no worksFor.
	assert.Equal(t, "Sunrise Counseling", recs[0].RawOrganization)
	assert.Equal(t, "Sunrise Counseling", recs[1].RawOrganization)
}

func TestProfileDir_MedicalSpecialtyAsTitle(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
{"@type": "Physician", "name": "Robert Chen", "medicalSpecialty": "Pediatrics"}
</script></head><body></body></html>`

	e := NewProfileDirExtractor()
	recs := e.Extract(context.Background(), model.FetchedPage{URL: "https://x.com", HTML: html}, model.CategoryPediatricians)
	require.Len(t, recs, 1)
	assert.Equal(t, "Pediatrics", recs[0].RawTitle)
}

func TestProfileDir_DOMFallback(t *testing.T) {
	html := `<html><body>
<h1 data-qa-target="provider-name">Dr. Emily Tran</h1>
<p data-qa-target="provider-specialty">Child Psychology</p>
<a href="mailto:ETran@sunrise.org">Email</a>
<a href="tel:202-555-9876">Call</a>
</body></html>`

	e := NewProfileDirExtractor()
	page := model.FetchedPage{URL: "https://x.com/dr-emily", HTML: html, Text: "Dr. Emily Tran\nChild Psychology"}
	recs := e.Extract(context.Background(), page, model.CategoryPsychologists)
	require.Len(t, recs, 1)
	assert.Equal(t, "Dr. Emily Tran", recs[0].RawName)
	assert.Equal(t, "Child Psychology", recs[0].RawTitle)
	assert.Equal(t, "etran@sunrise.org", recs[0].Email)
	assert.Equal(t, "202-555-9876", recs[0].Phone)
}

func TestProfileDir_MalformedJSONLDFallsThrough(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{not json at all</script>
</head><body><h1>Dr. Maria Gomez</h1><p class="specialty">Pediatrics</p></body></html>`

	e := NewProfileDirExtractor()
	recs := e.Extract(context.Background(), model.FetchedPage{URL: "https://x.com", HTML: html}, model.CategoryPediatricians)
	require.Len(t, recs, 1)
	assert.Equal(t, "Dr. Maria Gomez", recs[0].RawName)
	assert.Equal(t, "Pediatrics", recs[0].RawTitle)
}

func TestProfileDir_NoNameNoRecord(t *testing.T) {
	e := NewProfileDirExtractor()
	recs := e.Extract(context.Background(), model.FetchedPage{URL: "https://x.com", HTML: "<html><body><p>Nothing here</p></body></html>"}, model.CategoryPediatricians)
	assert.Empty(t, recs)
}
