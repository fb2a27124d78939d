package extract

import (
	"context"
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/validate"
)

// GenericExtractor is the fallback for domains no rule claims. It applies a
// relaxed name+title co-occurrence heuristic over text lines and accepts a
// role on the same line after a separator, not just the next line. Lower
// precision is expected; every record is tagged low-confidence so the
// scorer discounts it.
type GenericExtractor struct {
	names *validate.NameValidator
}

// NewGenericExtractor creates a GenericExtractor.
func NewGenericExtractor(names *validate.NameValidator) *GenericExtractor {
	return &GenericExtractor{names: names}
}

func (e *GenericExtractor) Name() string { return ExtractorGeneric }

// lineSeparators split "Jane Roe - Clinical Director" style lines.
var lineSeparators = []string{" - ", " – ", " — ", " | ", ", "}

func (e *GenericExtractor) Extract(_ context.Context, page model.FetchedPage, cat model.Category) []model.CandidateRecord {
	lines := strings.Split(page.Text, "\n")
	var out []model.CandidateRecord
	seen := map[string]bool{}

	emit := func(name, title string) {
		name = strings.TrimSpace(name)
		if seen[name] {
			return
		}
		seen[name] = true
		out = append(out, model.CandidateRecord{
			RawName:       name,
			RawTitle:      strings.TrimSpace(title),
			SourceURL:     page.URL,
			Category:      cat,
			LowConfidence: true,
		})
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || len(line) > 160 {
			continue
		}

		// Same-line form: "Name <sep> Role".
		for _, sep := range lineSeparators {
			if idx := strings.Index(line, sep); idx > 0 {
				name, rest := line[:idx], line[idx+len(sep):]
				// A comma separator may be a credential suffix, which
				// belongs to the name span; let the whole line through the
				// validator first.
				if sep == ", " && e.names.PlausiblePersonName(line) {
					break
				}
				if e.names.PlausiblePersonName(name) && roleWordRe.MatchString(rest) {
					emit(name, rest)
				}
				break
			}
		}
		if seen[strings.TrimSpace(line)] {
			continue
		}

		// Adjacent-line form: validated name followed by a role line.
		if !e.names.PlausiblePersonName(line) {
			continue
		}
		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next != "" && len(next) <= 120 && roleWordRe.MatchString(next) {
				emit(line, next)
			}
		}
	}
	return out
}
