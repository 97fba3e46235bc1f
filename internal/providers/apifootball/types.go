package apifootball

import "github.com/bytedance/sonic"

// fixturesEnvelope is the v3 response wrapper. Errors is an empty array on
// success and an object keyed by error kind on failure. Response items stay raw
// so one mistyped fixture cannot sink the rest of the day.
type fixturesEnvelope struct {
	Get      string                   `json:"get"`
	Errors   any                      `json:"errors"`
	Results  int                      `json:"results"`
	Response []sonic.NoCopyRawMessage `json:"response"`
}

type fixtureResponse struct {
	Fixture fixtureInfo    `json:"fixture"`
	League  leagueResponse `json:"league"`
	Teams   teamsResponse  `json:"teams"`
	Goals   goalsResponse  `json:"goals"`
}

type fixtureInfo struct {
	ID        int            `json:"id"`
	Timezone  string         `json:"timezone"`
	Date      string         `json:"date"`
	Timestamp int64          `json:"timestamp"`
	Status    statusResponse `json:"status"`
}

type statusResponse struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type leagueResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

type teamsResponse struct {
	Home teamResponse `json:"home"`
	Away teamResponse `json:"away"`
}

type teamResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type goalsResponse struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
