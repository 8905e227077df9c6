package review

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// RatingHistory is the ordered sequence of rating events one user submitted
// for one game, oldest first. The stored rating column keeps the events as a
// delimiter-joined string; this type is the structured view over it.
type RatingHistory []float64

// ParseRatingHistory decodes a stored rating field into its sequence of
// events. Entries that fail to parse are skipped rather than failing the
// whole history.
func ParseRatingHistory(raw string) RatingHistory {
	parts := strings.Split(raw, ",")
	history := make(RatingHistory, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			continue
		}
		history = append(history, value)
	}
	return history
}

// Latest returns the most recent rating event.
func (h RatingHistory) Latest() (float64, bool) {
	if len(h) == 0 {
		return 0, false
	}
	return h[len(h)-1], true
}

// Average reduces the history to its arithmetic mean.
func (h RatingHistory) Average() (float64, bool) {
	if len(h) == 0 {
		return 0, false
	}
	var sum float64
	for _, value := range h {
		sum += value
	}
	return sum / float64(len(h)), true
}

// PopularGame is one row of the popularity ranking.
type PopularGame struct {
	GameID        int64
	Name          string
	ReviewCount   int
	AverageRating float64
}

// Popular ranks games by review count, breaking ties on average rating. Each
// review counts once toward the average, reduced to its latest rating event;
// older events in a resubmitted review's history carry no weight. Computed
// here because the stored rating column is history text, not a numeric
// column.
func (s *Service) Popular(ctx context.Context, limit int) ([]PopularGame, error) {
	grouped, err := s.store.RatingsByGame(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]PopularGame, 0, len(grouped))
	for _, entry := range grouped {
		latests := make(RatingHistory, 0, len(entry.Ratings))
		for _, raw := range entry.Ratings {
			if value, ok := ParseRatingHistory(raw).Latest(); ok {
				latests = append(latests, value)
			}
		}
		average, _ := latests.Average()
		ranked = append(ranked, PopularGame{
			GameID:        entry.GameID,
			Name:          entry.Name,
			ReviewCount:   len(entry.Ratings),
			AverageRating: average,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ReviewCount != ranked[j].ReviewCount {
			return ranked[i].ReviewCount > ranked[j].ReviewCount
		}
		if ranked[i].AverageRating != ranked[j].AverageRating {
			return ranked[i].AverageRating > ranked[j].AverageRating
		}
		return ranked[i].Name < ranked[j].Name
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
