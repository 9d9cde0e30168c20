package search

import (
	"strings"

	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// MaxIndexedTerms caps the free-text terms stored per doctor document
const MaxIndexedTerms = 100

// BuildDoctorTerms collects the lowercase, de-duplicated terms a doctor can
// be found by beyond name and specialty. First-seen order is kept.
func BuildDoctorTerms(doctor *entities.Doctor) []string {
	if doctor == nil {
		return nil
	}

	seen := make(map[string]struct{})
	terms := make([]string, 0, len(doctor.Services)+2)
	add := func(values ...string) {
		for _, v := range values {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			if len(terms) >= MaxIndexedTerms {
				return
			}
			seen[v] = struct{}{}
			terms = append(terms, v)
		}
	}

	add(doctor.Services...)
	add(doctor.Degree, doctor.Expression)
	return terms
}
