package fixtures

import "time"

// Status is the upstream lifecycle status of a fixture.
type Status struct {
	Short   string
	Long    string
	Elapsed *int
}

// League identifies the competition a fixture belongs to.
type League struct {
	ID      int
	Name    string
	Country string
	Logo    string
	Season  int
	Round   string
}

// Team is one side of a fixture.
type Team struct {
	ID   int
	Name string
	Logo string
}

// Goals holds the score; either side is nil until the upstream reports it.
type Goals struct {
	Home *int
	Away *int
}

// Complete reports whether both sides of the score are known.
func (g Goals) Complete() bool {
	return g.Home != nil && g.Away != nil
}

// Fixture is one football match as normalized from the upstream provider.
// Kickoff is zero when the upstream timestamp could not be parsed.
type Fixture struct {
	ID       int
	Provider string
	Kickoff  time.Time
	Status   Status
	League   League
	Home     Team
	Away     Team
	Goals    Goals
}
