package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestGeneric_SameLineForm(t *testing.T) {
	page := model.FetchedPage{
		URL:  "https://smallclinic.org/about",
		Text: "About Our Clinic\nJane Roe - Clinical Director\nCall us anytime\nMark Webb | Office Manager",
	}

	e := NewGenericExtractor(testNames())
	recs := e.Extract(context.Background(), page, model.CategoryTreatmentCenters)

	require.Len(t, recs, 2)
	assert.Equal(t, "Jane Roe", recs[0].RawName)
	assert.Equal(t, "Clinical Director", recs[0].RawTitle)
	assert.Equal(t, "Mark Webb", recs[1].RawName)
	assert.Equal(t, "Office Manager", recs[1].RawTitle)
}

func TestGeneric_AdjacentLineForm(t *testing.T) {
	page := model.FetchedPage{
		URL:  "https://smallclinic.org/team",
		Text: "Sarah Johnson\nProgram Director\nUpcoming Events\nSpring Gala",
	}

	e := NewGenericExtractor(testNames())
	recs := e.Extract(context.Background(), page, model.CategoryPsychologists)

	require.Len(t, recs, 1)
	assert.Equal(t, "Sarah Johnson", recs[0].RawName)
	assert.Equal(t, "Program Director", recs[0].RawTitle)
}

func TestGeneric_AllRecordsLowConfidence(t *testing.T) {
	page := model.FetchedPage{
		URL:  "https://x.org",
		Text: "Jane Roe - Clinical Director\nSarah Johnson\nProgram Director",
	}

	e := NewGenericExtractor(testNames())
	recs := e.Extract(context.Background(), page, model.CategoryTreatmentCenters)

	require.NotEmpty(t, recs)
	for _, r := range recs {
		assert.True(t, r.LowConfidence)
	}
}

func TestGeneric_CredentialCommaIsNotASeparator(t *testing.T) {
	// "Jane Roe, PhD" splits at ", " but the whole line is a valid name with
	// a credential suffix; the next line carries the role.
	page := model.FetchedPage{
		URL:  "https://x.org",
		Text: "Jane Roe, PhD\nClinical Psychologist",
	}

	e := NewGenericExtractor(testNames())
	recs := e.Extract(context.Background(), page, model.CategoryPsychologists)

	require.Len(t, recs, 1)
	assert.Equal(t, "Jane Roe, PhD", recs[0].RawName)
	assert.Equal(t, "Clinical Psychologist", recs[0].RawTitle)
}

func TestGeneric_NoFalsePositivesOnBoilerplate(t *testing.T) {
	page := model.FetchedPage{
		URL:  "https://x.org",
		Text: "Contact Us\nPrivacy Policy\nWashington DC\nOur Services\n© 2024 Example Org",
	}

	e := NewGenericExtractor(testNames())
	recs := e.Extract(context.Background(), page, model.CategoryTreatmentCenters)
	assert.Empty(t, recs)
}
