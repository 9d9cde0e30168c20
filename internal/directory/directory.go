// Package directory holds the doctor-directory views shared by the API's
// search fallback and the command-line client: filtering, the specialty
// picker, home statistics and the appointment status tabs.
package directory

import (
	"math"
	"sort"
	"strings"

	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// AllSpecialties disables the specialty filter
const AllSpecialties = "All"

// TopRatedCount is the number of doctors shown in the home page strip
const TopRatedCount = 4

// Filter keeps doctors whose name or specialty contains query
// (case-insensitive) and whose specialty equals specialty. An empty query
// matches everything; an empty specialty or AllSpecialties disables that
// filter. Input order is preserved.
func Filter(doctors []*entities.Doctor, query, specialty string) []*entities.Doctor {
	q := strings.ToLower(strings.TrimSpace(query))
	specialty = strings.TrimSpace(specialty)

	out := make([]*entities.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if d == nil {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(d.Name), q) &&
			!strings.Contains(strings.ToLower(d.Specialty), q) {
			continue
		}
		if specialty != "" && specialty != AllSpecialties && d.Specialty != specialty {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Specialties returns AllSpecialties followed by each distinct non-empty
// specialty in first-seen order
func Specialties(doctors []*entities.Doctor) []string {
	seen := make(map[string]struct{})
	out := []string{AllSpecialties}
	for _, d := range doctors {
		if d == nil || d.Specialty == "" {
			continue
		}
		if _, ok := seen[d.Specialty]; ok {
			continue
		}
		seen[d.Specialty] = struct{}{}
		out = append(out, d.Specialty)
	}
	return out
}

// HomeStats are the counters on the home page
type HomeStats struct {
	TotalDoctors  int     `json:"totalDoctors"`
	TotalPatients int     `json:"totalPatients"`
	AvgRating     float64 `json:"avgRating"`
}

// ComputeHomeStats averages ratings over every listed doctor, counting a
// missing rating as zero, and rounds to one decimal
func ComputeHomeStats(doctors []*entities.Doctor, patientCount int) HomeStats {
	stats := HomeStats{TotalDoctors: len(doctors), TotalPatients: patientCount}
	if len(doctors) == 0 {
		return stats
	}

	var sum float64
	for _, d := range doctors {
		if d != nil {
			sum += d.RatingValue()
		}
	}
	stats.AvgRating = math.Round(sum/float64(len(doctors))*10) / 10
	return stats
}

// TopRated returns up to TopRatedCount doctors by descending rating. Ties
// keep their listing order.
func TopRated(doctors []*entities.Doctor) []*entities.Doctor {
	sorted := make([]*entities.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if d != nil {
			sorted = append(sorted, d)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RatingValue() > sorted[j].RatingValue()
	})
	if len(sorted) > TopRatedCount {
		sorted = sorted[:TopRatedCount]
	}
	return sorted
}
