// README: Ordered category → place-tag synonym table. Order is match priority.
package intent

// Category pairs a user-facing word with the place tags it stands for.
type Category struct {
	Word string
	Tags []string
}

// SynonymTable is immutable after construction; lookups scan in definition order.
type SynonymTable struct {
	entries []Category
	index   map[string]int
}

func NewSynonymTable(entries []Category) *SynonymTable {
	t := &SynonymTable{
		entries: make([]Category, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		tags := make([]string, len(e.Tags))
		copy(tags, e.Tags)
		t.entries[i] = Category{Word: e.Word, Tags: tags}
		if _, dup := t.index[e.Word]; !dup {
			t.index[e.Word] = i
		}
	}
	return t
}

// Categories returns the entries in priority order.
func (t *SynonymTable) Categories() []Category {
	out := make([]Category, len(t.entries))
	for i, e := range t.entries {
		out[i] = Category{Word: e.Word, Tags: append([]string(nil), e.Tags...)}
	}
	return out
}

// Tags returns the synonyms for word, or nil when it is not a category.
func (t *SynonymTable) Tags(word string) []string {
	i, ok := t.index[word]
	if !ok {
		return nil
	}
	return append([]string(nil), t.entries[i].Tags...)
}

// DefaultSynonyms is loaded once at startup.
var DefaultSynonyms = NewSynonymTable([]Category{
	// food and drink
	{"food", []string{"restaurant", "cafe", "bar", "pub", "fast_food", "food_court"}},
	{"restaurant", []string{"restaurant"}},
	{"cafe", []string{"cafe"}},
	{"dining", []string{"restaurant", "cafe", "bar", "pub"}},
	{"eat", []string{"restaurant", "cafe", "fast_food"}},
	// tourism
	{"tourist", []string{"attraction", "museum", "gallery", "viewpoint", "artwork", "theme_park"}},
	{"attraction", []string{"attraction", "theme_park", "artwork"}},
	{"museum", []string{"museum"}},
	{"gallery", []string{"gallery", "museum", "artwork"}},
	{"culture", []string{"museum", "gallery", "theatre", "arts_centre"}},
	{"sightseeing", []string{"attraction", "viewpoint", "monument"}},
	// accommodation
	{"hotel", []string{"hotel", "hostel", "guest_house"}},
	{"accommodation", []string{"hotel", "hostel", "guest_house", "apartment"}},
	{"stay", []string{"hotel", "hostel", "guest_house", "apartment"}},
	// nature and recreation
	{"park", []string{"park"}},
	{"nature", []string{"park", "nature_reserve", "national_park"}},
	{"outdoor", []string{"park", "viewpoint", "nature_reserve"}},
	// shopping
	{"shop", []string{"mall", "department_store", "supermarket"}},
	{"mall", []string{"mall"}},
	{"shopping", []string{"mall", "department_store", "marketplace"}},
	// entertainment
	{"entertainment", []string{"cinema", "theatre", "nightclub", "casino"}},
	{"cinema", []string{"cinema"}},
	{"theatre", []string{"theatre"}},
	{"movie", []string{"cinema"}},
	{"show", []string{"theatre", "arts_centre"}},
})
