package organizer

import (
	"strings"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/sections"
)

var finishedCodes = map[string]struct{}{
	"FT":  {},
	"AET": {},
	"PEN": {},
}

var liveCodes = map[string]struct{}{
	"1H":   {},
	"HT":   {},
	"2H":   {},
	"ET":   {},
	"BT":   {},
	"P":    {},
	"LIVE": {},
	"INT":  {},
}

// DisplayStatus maps an upstream short status code to what the page shows.
// Anything not known to be live or finished (NS, TBD, PST, CANC, ...) renders as scheduled.
func DisplayStatus(short string) sections.DisplayStatus {
	code := strings.ToUpper(strings.TrimSpace(short))
	if _, ok := finishedCodes[code]; ok {
		return sections.StatusFinished
	}
	if _, ok := liveCodes[code]; ok {
		return sections.StatusLive
	}
	return sections.StatusScheduled
}
