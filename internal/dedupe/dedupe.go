// Package dedupe merges prospects found via multiple categories or URLs and
// computes their influence scores.
package dedupe

import (
	"sort"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Dedupe groups prospects by identity key and keeps one survivor per group:
// the record with the most populated contact fields, ties broken in favor
// of a non-empty email. The survivor's empty fields are filled from the
// losers — fields are added, never removed — so running Dedupe on its own
// output is a no-op.
func Dedupe(prospects []model.Prospect) []model.Prospect {
	groups := make(map[string][]model.Prospect)
	var order []string
	for _, p := range prospects {
		key := p.IdentityKey()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	out := make([]model.Prospect, 0, len(order))
	for _, key := range order {
		out = append(out, mergeGroup(groups[key]))
	}
	return out
}

// mergeGroup picks the survivor and folds the rest into it.
func mergeGroup(group []model.Prospect) model.Prospect {
	if len(group) == 1 {
		return group[0]
	}

	// Stable sort: richest first, email presence breaking ties. Stability
	// keeps the earliest-found record on equal footing, which makes dedup
	// deterministic across runs.
	sort.SliceStable(group, func(i, j int) bool {
		pi, pj := group[i].Contact.PopulatedFields(), group[j].Contact.PopulatedFields()
		if pi != pj {
			return pi > pj
		}
		return group[i].Contact.Email != "" && group[j].Contact.Email == ""
	})

	survivor := group[0]
	for _, loser := range group[1:] {
		fillEmpty(&survivor, loser)
	}
	return survivor
}

// fillEmpty copies src fields into dst where dst is empty.
func fillEmpty(dst *model.Prospect, src model.Prospect) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Organization == "" {
		dst.Organization = src.Organization
	}
	if dst.Contact.Email == "" {
		dst.Contact.Email = src.Contact.Email
	}
	if dst.Contact.Phone == "" {
		dst.Contact.Phone = src.Contact.Phone
	}
	if dst.Contact.Website == "" {
		dst.Contact.Website = src.Contact.Website
	}
	if dst.Contact.ProfileURL == "" {
		dst.Contact.ProfileURL = src.Contact.ProfileURL
	}
	// A merge of a low-confidence record into a confident one keeps the
	// confident flag; both low keeps low.
	dst.LowConfidence = dst.LowConfidence && src.LowConfidence
}
