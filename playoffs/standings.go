package playoffs

import "sort"

// Standing is a team's place in the table.
type Standing struct {
	Rank        int     `json:"rank"`
	TeamID      string  `json:"teamId"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ties        int     `json:"ties,omitempty"`
	PointsTotal float64 `json:"pointsTotal"`
}

// Standings ranks the records by wins, then points scored. Teams level on
// both are ordered by id so the table is always deterministic.
func Standings(records []TeamSeasonRecord) []Standing {
	out := make([]Standing, len(records))
	for i, r := range records {
		out[i] = Standing{
			TeamID:      r.TeamID,
			Wins:        r.Wins,
			Losses:      r.GamesPlayed - r.Wins - r.Ties,
			Ties:        r.Ties,
			PointsTotal: r.PointsTotal,
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return ranksAhead(out[i].Wins, out[i].PointsTotal, out[i].TeamID,
			out[j].Wins, out[j].PointsTotal, out[j].TeamID)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// settled reports which teams are already certain to make or miss the top
// slots with weeksLeft games still to play for every team. Points scored are
// not known in advance, so a team level on wins counts as able to finish
// ahead. With no games left the current table decides.
func settled(table []Standing, weeksLeft, slots int) (clinched, eliminated map[string]bool) {
	clinched = make(map[string]bool)
	eliminated = make(map[string]bool)
	for _, st := range table {
		if weeksLeft == 0 {
			clinched[st.TeamID] = st.Rank <= slots
			eliminated[st.TeamID] = st.Rank > slots
			continue
		}
		var threats, ahead int
		for _, other := range table {
			if other.TeamID == st.TeamID {
				continue
			}
			if other.Wins+weeksLeft >= st.Wins {
				threats++
			}
			if other.Wins > st.Wins+weeksLeft {
				ahead++
			}
		}
		clinched[st.TeamID] = threats < slots
		eliminated[st.TeamID] = ahead >= slots
	}
	return clinched, eliminated
}

func ranksAhead(winsA int, ptsA float64, idA string, winsB int, ptsB float64, idB string) bool {
	if winsA != winsB {
		return winsA > winsB
	}
	if ptsA != ptsB {
		return ptsA > ptsB
	}
	return idA < idB
}
