package dedupe

import (
	"regexp"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
)

// Seniority tiers for the title ladder. Full-title matching, so "Clinical
// Director, Family Programs" ranks senior.
var (
	// attaché sits outside the trailing \b: Go's \b is ASCII-only and never
	// matches after é.
	seniorTitleRe = regexp.MustCompile(`(?i)\b(chief|director|head|president|founder|principal|owner|chair|dean|superintendent|ambassador|attache)\b|\battaché`)
	midTitleRe    = regexp.MustCompile(`(?i)\b(manager|coordinator|lead|supervisor|officer|senior|administrator|head coach)\b`)
)

// Scorer computes the influence/fit score of a prospect from fixed weighted
// signals. Deterministic and side-effect-free: the same prospect always
// scores the same.
type Scorer struct {
	w config.ScoreWeights
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(w config.ScoreWeights) *Scorer {
	return &Scorer{w: w}
}

// Score returns the influence score in [0,100].
func (s *Scorer) Score(p model.Prospect) int {
	score := s.w.Base

	if p.Contact.Email != "" {
		score += s.w.Email
	}
	if p.Contact.Phone != "" {
		score += s.w.Phone
	}
	if p.Contact.Website != "" || p.Contact.ProfileURL != "" {
		score += s.w.Website
	}
	if p.Organization != "" {
		score += s.w.Organization
	}

	switch {
	case seniorTitleRe.MatchString(p.Title):
		score += s.w.SenioritySenior
	case midTitleRe.MatchString(p.Title):
		score += s.w.SeniorityMid
	}

	if p.LowConfidence {
		score -= s.w.LowConfidencePenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// ScoreAll sets the score on every prospect in place.
func (s *Scorer) ScoreAll(prospects []model.Prospect) {
	for i := range prospects {
		prospects[i].Score = s.Score(prospects[i])
	}
}
