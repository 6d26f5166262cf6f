package schools

import (
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

type Match struct {
	School     School
	Similarity float64
}

func similarity(query, value string) float64 {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return 0
	}
	if strings.Contains(value, query) {
		return 1
	}
	return matchr.JaroWinkler(query, value, false)
}

// Search ranks schools by how close their name or city is to `query`.
// Matches below `threshold` are dropped, the rest are sorted by decreasing
// similarity, ties keep their input order.
func Search(list []School, query string, threshold float64) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var result []Match
	for _, school := range list {
		score := max(
			similarity(query, school.Name),
			similarity(query, school.City),
		)
		if score < threshold || score == 0 {
			continue
		}
		result = append(result, Match{School: school, Similarity: score})
	}

	slices.SortStableFunc(result, func(a, b Match) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})
	return result
}
