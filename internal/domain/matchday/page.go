package matchday

// Page is a fully rendered day page ready to hand to a publish target.
type Page struct {
	Day   Day
	Date  string
	Slug  string
	Title string
	HTML  string
}

// Action describes what a publish target did with a page.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
)

// PublishResult is what a target reports back after a publish.
type PublishResult struct {
	Action Action
	ID     int
	// Location is the URL or file path the page now lives at.
	Location string
}
