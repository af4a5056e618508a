package game

import (
	"fmt"
	"sort"
	"strings"
)

// Standing is one scoreboard row.
type Standing struct {
	UserID    string
	Name      string
	Score     int
	ElapsedMS int64
}

// Standings ranks participants score-descending, then total answer time
// ascending (faster wins ties), then user id for a stable order.
func (s *Session) Standings() []Standing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Standing, 0, len(s.scoreboard))
	for id, entry := range s.scoreboard {
		out = append(out, Standing{
			UserID:    id,
			Name:      entry.Name,
			Score:     entry.Score,
			ElapsedMS: entry.ElapsedMS,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].ElapsedMS != out[j].ElapsedMS {
			return out[i].ElapsedMS < out[j].ElapsedMS
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// FormatStandings renders the end-of-session leaderboard.
func FormatStandings(standings []Standing) string {
	if len(standings) == 0 {
		return "Nobody scored."
	}
	var b strings.Builder
	for i, st := range standings {
		medal := fmt.Sprintf("#%d", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		fmt.Fprintf(&b, "%s %s: %d pts (%.1fs)\n", medal, st.Name, st.Score, float64(st.ElapsedMS)/1000)
	}
	return strings.TrimRight(b.String(), "\n")
}
