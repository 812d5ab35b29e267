// Package facematch scores query embeddings against the enrolled population
// and provides display-name normalization shared between CLI and web
// handlers.
package facematch

import (
	"math"
	"sort"

	"github.com/arkadas/facerec/internal/encodings"
)

// maxDistance is returned for degenerate inputs. The embedding server
// produces L2-normalized vectors, so Euclidean distance is bounded by 2.
const maxDistance = 2.0

// EuclideanDistance computes the Euclidean (L2) distance between two
// vectors. Mismatched or empty inputs yield the maximum distance.
func EuclideanDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return maxDistance
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Candidate is a single ranked match against the enrolled population.
type Candidate struct {
	UserID      string  `json:"user_id"`
	Confidence  float64 `json:"confidence"`
	DisplayName string  `json:"display_name,omitempty"`
}

// Matcher scores query embeddings against every enrolled user.
//
// Confidence is 1 - distance. With L2-normalized vectors distances fall in
// [0, 2], so confidence falls in [-1, 1]; negative values are legal and
// simply never pass the floor.
type Matcher struct {
	MinConfidence float64
}

// New creates a matcher with the given confidence floor.
func New(minConfidence float64) *Matcher {
	return &Matcher{MinConfidence: minConfidence}
}

// Match scans the population linearly. Each user's best (smallest) distance
// across all of their embeddings becomes the user's score; users at or above
// the confidence floor are returned ordered by confidence descending, with
// ties broken by user id so repeated calls produce the same order.
func (m *Matcher) Match(query []float32, population []encodings.Record) []Candidate {
	candidates := make([]Candidate, 0)
	for i := range population {
		rec := &population[i]
		if len(rec.Embeddings) == 0 {
			continue
		}

		best := math.Inf(1)
		for _, emb := range rec.Embeddings {
			if d := EuclideanDistance(query, emb); d < best {
				best = d
			}
		}

		confidence := 1 - best
		if confidence < m.MinConfidence {
			continue
		}
		candidates = append(candidates, Candidate{
			UserID:      rec.Identity,
			Confidence:  math.Round(confidence*10000) / 10000,
			DisplayName: rec.Meta.DisplayName,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].UserID < candidates[j].UserID
	})
	return candidates
}
