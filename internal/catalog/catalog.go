package catalog

// Category is a page section and the upstream league IDs that belong to it.
type Category struct {
	Key       string
	Title     string
	LeagueIDs []int
}

// Catalog is an ordered set of categories. Order decides both classification
// priority and the order sections appear on the page.
type Catalog []Category

const (
	KeyArab          = "arab"
	KeyEuropean      = "euro"
	KeyInternational = "intl"
)

// Default returns the built-in catalog of tracked competitions.
func Default() Catalog {
	return Catalog{
		{
			Key:       KeyArab,
			Title:     "🏆 البطولات العربية والقارية",
			LeagueIDs: []int{200, 307, 233, 531, 12, 17, 202, 141, 143},
		},
		{
			Key:   KeyEuropean,
			Title: "🇪🇺 الدوريات الأوروبية الكبرى",
			// Big five leagues plus the Champions League and Europa League.
			LeagueIDs: []int{39, 140, 135, 78, 61, 2, 3},
		},
		{
			Key:       KeyInternational,
			Title:     "🌍 المنتخبات والبطولات الدولية",
			LeagueIDs: []int{1, 4, 9, 10, 20, 21, 42},
		},
	}
}

// Classify returns the first category that lists leagueID.
func (c Catalog) Classify(leagueID int) (Category, bool) {
	for _, cat := range c {
		for _, id := range cat.LeagueIDs {
			if id == leagueID {
				return cat, true
			}
		}
	}
	return Category{}, false
}

// Index maps every league ID to its category key, honoring catalog order on duplicates.
func (c Catalog) Index() map[int]string {
	out := make(map[int]string)
	for _, cat := range c {
		for _, id := range cat.LeagueIDs {
			if _, seen := out[id]; !seen {
				out[id] = cat.Key
			}
		}
	}
	return out
}
