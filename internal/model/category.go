package model

import "strings"

type Category struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

var Categories = []Category{
	{Slug: "retail", Title: "Retail & E-commerce"},
	{Slug: "food", Title: "Food & Beverage"},
	{Slug: "automotive", Title: "Automotive"},
	{Slug: "realestate", Title: "Real Estate"},
	{Slug: "healthcare", Title: "Healthcare"},
	{Slug: "creative", Title: "Creative Services"},
	{Slug: "technology", Title: "Technology"},
	{Slug: "construction", Title: "Construction"},
}

// ParseCategory matches s against category slugs and titles, ignoring case
// and surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, c.Slug) || strings.EqualFold(s, c.Title) {
			return c, true
		}
	}
	return Category{}, false
}
