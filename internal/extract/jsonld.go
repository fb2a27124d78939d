package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ldPerson is a Person-typed JSON-LD block flattened to the fields the
// profile extractor cares about.
type ldPerson struct {
	Name      string
	JobTitle  string
	Telephone string
	Email     string
	WorksFor  string
	URL       string
}

// ldOrg is an Organization-typed JSON-LD block.
type ldOrg struct {
	Name string
}

// personTypes are the schema.org @type values treated as a person. Medical
// directories use the MedicalBusiness subtypes for practitioner profiles.
var personTypes = map[string]bool{
	"Person": true, "Physician": true, "Dentist": true, "Psychologist": true,
}

var orgTypes = map[string]bool{
	"Organization": true, "LocalBusiness": true, "MedicalOrganization": true,
	"MedicalClinic": true, "Hospital": true, "SportsOrganization": true,
	"GovernmentOrganization": true, "EducationalOrganization": true,
}

// parseJSONLD walks every ld+json script block in the document and collects
// person and organization entries. Malformed blocks are skipped; directory
// sites routinely ship broken JSON-LD alongside valid blocks.
func parseJSONLD(doc *goquery.Document) (persons []ldPerson, orgs []ldOrg) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var node any
		if err := json.Unmarshal([]byte(raw), &node); err != nil {
			return
		}
		walkLDNode(node, &persons, &orgs)
	})
	return persons, orgs
}

// walkLDNode recurses through JSON-LD nodes, including @graph arrays and
// top-level arrays.
func walkLDNode(node any, persons *[]ldPerson, orgs *[]ldOrg) {
	switch n := node.(type) {
	case []any:
		for _, item := range n {
			walkLDNode(item, persons, orgs)
		}
	case map[string]any:
		if graph, ok := n["@graph"]; ok {
			walkLDNode(graph, persons, orgs)
		}

		typ := ldType(n)
		switch {
		case personTypes[typ]:
			p := ldPerson{
				Name:      ldString(n, "name"),
				JobTitle:  ldString(n, "jobTitle"),
				Telephone: ldString(n, "telephone"),
				Email:     strings.TrimPrefix(ldString(n, "email"), "mailto:"),
				URL:       ldString(n, "url"),
			}
			if wf, ok := n["worksFor"].(map[string]any); ok {
				p.WorksFor = ldString(wf, "name")
			}
			// Physician profiles carry the specialty where jobTitle is empty.
			if p.JobTitle == "" {
				p.JobTitle = ldString(n, "medicalSpecialty")
			}
			if p.Name != "" {
				*persons = append(*persons, p)
			}
		case orgTypes[typ]:
			if name := ldString(n, "name"); name != "" {
				*orgs = append(*orgs, ldOrg{Name: name})
			}
		}

		// Listing pages embed people inside ItemList elements.
		for _, key := range []string{"itemListElement", "member", "employee"} {
			if sub, ok := n[key]; ok {
				walkLDNode(sub, persons, orgs)
			}
		}
		if item, ok := n["item"]; ok {
			walkLDNode(item, persons, orgs)
		}
	}
}

// ldType extracts @type, which may be a string or an array of strings.
func ldType(n map[string]any) string {
	switch t := n["@type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok {
				if personTypes[s] || orgTypes[s] {
					return s
				}
			}
		}
	}
	return ""
}

// ldString reads a string field; schema.org allows single-element arrays
// where a string is expected.
func ldString(n map[string]any, key string) string {
	switch v := n[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
