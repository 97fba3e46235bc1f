package sections

// DisplayStatus is the simplified state the page renders for a match.
type DisplayStatus string

const (
	StatusScheduled DisplayStatus = "scheduled"
	StatusLive      DisplayStatus = "live"
	StatusFinished  DisplayStatus = "finished"
)

// Match is a single rendered fixture row. Score is nil until both goals are known.
type Match struct {
	Home     string        `json:"home"`
	HomeLogo string        `json:"hLogo"`
	Away     string        `json:"away"`
	AwayLogo string        `json:"aLogo"`
	Time     string        `json:"time"`
	Status   DisplayStatus `json:"status"`
	Score    *string       `json:"score"`
}

// League groups the matches of one competition inside a section.
type League struct {
	Name    string  `json:"name"`
	Logo    string  `json:"logo"`
	Matches []Match `json:"matches"`
}

// Section is one category block (Arab, European, International) of the page.
type Section struct {
	Key     string   `json:"-"`
	Title   string   `json:"title"`
	Leagues []League `json:"leagues"`
}

// CountMatches totals the matches across every league of every section.
func CountMatches(list []Section) int {
	total := 0
	for _, s := range list {
		for _, l := range s.Leagues {
			total += len(l.Matches)
		}
	}
	return total
}
