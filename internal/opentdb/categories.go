package opentdb

import "strings"

// AnyCategory is the wildcard entry; it carries no identifier and means the
// category filter is omitted.
const AnyCategory = "Any Category"

type Category struct {
	Name string `json:"name"`
	ID   int    `json:"id,omitempty"`
}

var categories = []Category{
	{Name: AnyCategory},
	{Name: "General Knowledge", ID: 9},
	{Name: "Books", ID: 10},
	{Name: "Film", ID: 11},
	{Name: "Music", ID: 12},
	{Name: "Musicals & Theatres", ID: 13},
	{Name: "Television", ID: 14},
	{Name: "Video Games", ID: 15},
	{Name: "Board Games", ID: 16},
	{Name: "Science & Nature", ID: 17},
	{Name: "Computers", ID: 18},
	{Name: "Mathematics", ID: 19},
	{Name: "Mythology", ID: 20},
	{Name: "Sports", ID: 21},
	{Name: "Geography", ID: 22},
	{Name: "History", ID: 23},
	{Name: "Politics", ID: 24},
	{Name: "Art", ID: 25},
	{Name: "Celebrities", ID: 26},
	{Name: "Animals", ID: 27},
	{Name: "Vehicles", ID: 28},
	{Name: "Comics", ID: 29},
	{Name: "Gadgets", ID: 30},
	{Name: "Anime & Manga", ID: 31},
	{Name: "Cartoon & Animations", ID: 32},
}

// Categories returns the category vocabulary in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// LookupCategory resolves a category by name (case-insensitive). An empty
// name resolves to AnyCategory.
func LookupCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return categories[0], true
	}
	for _, category := range categories {
		if strings.EqualFold(category.Name, name) {
			return category, true
		}
	}
	return Category{}, false
}
