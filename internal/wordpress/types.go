package wordpress

// Item is the subset of a WordPress page/post the publisher cares about.
type Item struct {
	ID      int             `json:"id"`
	Slug    string          `json:"slug"`
	Link    string          `json:"link"`
	Status  string          `json:"status"`
	Content renderedContent `json:"content"`
}

// RawContent is the stored (unfiltered) content; only present with context=edit.
func (i Item) RawContent() string {
	return i.Content.Raw
}

type renderedContent struct {
	Raw      string `json:"raw"`
	Rendered string `json:"rendered"`
}

type createRequest struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Status  string `json:"status"`
	Content string `json:"content"`
}

type updateRequest struct {
	Content string `json:"content"`
}
