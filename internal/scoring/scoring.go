// Package scoring ranks competing bid responses with a multi-criteria
// weighted score. It performs no I/O and never mutates bid state;
// output is deterministic for a fixed input and weight vector.
package scoring

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/digitaleng1/digitalbuild-sub001/internal/models"
)

// Experience is capped at a fixed policy ceiling: 20 years map to a
// perfect score regardless of the input set. Rating uses the fixed
// 0-5 scale of specialist profiles.
const (
	experienceCeilingYears = 20.0
	ratingScale            = 5.0
)

var ErrNegativeWeight = errors.New("scoring weights must not be negative")

// Weights are treated as literal percentages of the composite score:
// each component contributes score * weight / 100. The engine does not
// renormalize vectors that do not sum to 100; the UI keeps them there.
type Weights struct {
	Price      float64 `json:"price"`
	Duration   float64 `json:"duration"`
	Experience float64 `json:"experience"`
	Rating     float64 `json:"rating"`
}

func (w Weights) Validate() error {
	if w.Price < 0 || w.Duration < 0 || w.Experience < 0 || w.Rating < 0 {
		return ErrNegativeWeight
	}
	return nil
}

// Candidate is one bid request with whatever response data it has.
// Price, days, experience and rating are only meaningful when a
// response exists, i.e. the status is Responded, Accepted or Rejected.
type Candidate struct {
	BidRequestId    string                  `json:"bidRequestId"`
	SpecialistId    string                  `json:"specialistId"`
	Status          models.BidRequestStatus `json:"status"`
	ProposedPrice   decimal.Decimal         `json:"proposedPrice"`
	EstimatedDays   int                     `json:"estimatedDays"`
	ExperienceYears float64                 `json:"experienceYears"`
	Rating          float64                 `json:"rating"`
}

// scored reports whether the candidate carries an actual response.
// Pending invitations and withdrawn requests receive no scores.
func (c Candidate) scored() bool {
	switch c.Status {
	case models.BidResponded, models.BidAccepted, models.BidRejected:
		return true
	default:
		return false
	}
}

// Entry is one row of the ranked output. Scored=false marks entries
// whose zero scores mean "no response yet", not a poor proposal.
type Entry struct {
	Candidate
	Rank            int     `json:"rank"`
	PriceScore      float64 `json:"priceScore"`
	DurationScore   float64 `json:"durationScore"`
	ExperienceScore float64 `json:"experienceScore"`
	RatingScore     float64 `json:"ratingScore"`
	Total           float64 `json:"total"`
	Scored          bool    `json:"scored"`
}

// Rank produces the ordered comparison of the given candidates.
// Scored entries are sorted by composite score descending (stable, so
// equal scores keep input order); unscored entries follow in their
// original relative order. Empty input yields empty output.
func Rank(candidates []Candidate, weights Weights) ([]Entry, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	scored := make([]Entry, 0, len(candidates))
	pending := make([]Entry, 0)
	for _, c := range candidates {
		if c.scored() {
			scored = append(scored, Entry{Candidate: c, Scored: true})
		} else {
			pending = append(pending, Entry{Candidate: c})
		}
	}

	if len(scored) > 0 {
		minPrice, maxPrice := priceRange(scored)
		minDays, maxDays := daysRange(scored)

		for i := range scored {
			e := &scored[i]
			e.PriceScore = inverseNormalize(e.ProposedPrice.InexactFloat64(), minPrice, maxPrice)
			e.DurationScore = inverseNormalize(float64(e.EstimatedDays), minDays, maxDays)
			e.ExperienceScore = experienceScore(e.ExperienceYears)
			e.RatingScore = e.Rating / ratingScale * 100
			e.Total = e.PriceScore*weights.Price/100 +
				e.DurationScore*weights.Duration/100 +
				e.ExperienceScore*weights.Experience/100 +
				e.RatingScore*weights.Rating/100
		}

		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Total > scored[j].Total
		})
	}

	result := append(scored, pending...)
	for i := range result {
		result[i].Rank = i + 1
	}
	return result, nil
}

// inverseNormalize maps the cheapest/shortest value of the set to 100
// and the most expensive/longest to 0, linear in between. An
// equal-value set scores 100 across the board.
func inverseNormalize(v, min, max float64) float64 {
	if max == min {
		return 100
	}
	return (max - v) / (max - min) * 100
}

func experienceScore(years float64) float64 {
	r := years / experienceCeilingYears
	if r > 1 {
		r = 1
	}
	if r < 0 {
		r = 0
	}
	return r * 100
}

func priceRange(entries []Entry) (min, max float64) {
	min = entries[0].ProposedPrice.InexactFloat64()
	max = min
	for _, e := range entries[1:] {
		p := e.ProposedPrice.InexactFloat64()
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return min, max
}

func daysRange(entries []Entry) (min, max float64) {
	min = float64(entries[0].EstimatedDays)
	max = min
	for _, e := range entries[1:] {
		d := float64(e.EstimatedDays)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}
