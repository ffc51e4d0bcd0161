package maps

import (
	"fmt"
	"strings"

	"terra/internal/types"
)

// tagRule adds values for an OSM key when any search token contains one of
// its keywords.
type tagRule struct {
	keywords []string
	values   []string
}

type tagGroup struct {
	key      string
	elements []string
	rules    []tagRule
}

// Groups are emitted in this order: tourism, amenity, leisure, shop.
var tagGroups = []tagGroup{
	{
		key:      "tourism",
		elements: []string{"node", "way", "relation"},
		rules: []tagRule{
			{[]string{"attraction"}, []string{"attraction"}},
			{[]string{"museum"}, []string{"museum"}},
			{[]string{"gallery", "artwork"}, []string{"gallery"}},
			{[]string{"hotel", "hostel"}, []string{"hotel", "hostel", "guest_house"}},
		},
	},
	{
		key:      "amenity",
		elements: []string{"node", "way"},
		rules: []tagRule{
			{[]string{"restaurant", "food", "eat", "dining"}, []string{"restaurant"}},
			{[]string{"cafe", "food"}, []string{"cafe"}},
			{[]string{"bar", "pub", "dining"}, []string{"bar", "pub"}},
			{[]string{"fast_food", "food"}, []string{"fast_food"}},
			{[]string{"cinema", "movie", "entertainment"}, []string{"cinema"}},
			{[]string{"theatre", "show", "entertainment"}, []string{"theatre"}},
			{[]string{"arts_centre", "culture"}, []string{"arts_centre"}},
		},
	},
	{
		key:      "leisure",
		elements: []string{"node", "way", "relation"},
		rules: []tagRule{
			{[]string{"park", "nature", "outdoor"}, []string{"park"}},
		},
	},
	{
		key:      "shop",
		elements: []string{"node", "way"},
		rules: []tagRule{
			{[]string{"mall", "shopping", "shop"}, []string{"mall"}},
			{[]string{"department_store", "shopping"}, []string{"department_store"}},
		},
	},
}

// defaultSelectors cover tourism, parks, food, culture and malls.
var defaultSelectors = []string{
	`node["tourism"]`,
	`node["leisure"="park"]`,
	`node["amenity"="restaurant"]`,
	`node["amenity"="cafe"]`,
	`node["amenity"="theatre"]`,
	`node["amenity"="cinema"]`,
	`node["amenity"="arts_centre"]`,
	`node["shop"="mall"]`,
	`way["tourism"]`,
	`way["leisure"="park"]`,
	`relation["tourism"]`,
	`relation["leisure"="park"]`,
}

var stopSelectors = []string{
	`node["public_transport"="stop_position"]`,
	`node["highway"="bus_stop"]`,
	`node["railway"="station"]`,
	`node["railway"="tram_stop"]`,
}

// BuildPlaceQuery builds an Overpass QL query restricted to the tag groups
// matched by tokens. With no tokens, or none matching, the default selector
// set is used.
func BuildPlaceQuery(center types.Point, radiusM int, tokens []string) string {
	selectors := matchSelectors(tokens)
	if len(selectors) == 0 {
		selectors = defaultSelectors
	}
	return buildQuery(selectors, center, radiusM, "out center;")
}

// BuildStopQuery builds the transit stop query used for nearest-stop lookups.
func BuildStopQuery(center types.Point, radiusM int) string {
	return buildQuery(stopSelectors, center, radiusM, "out;")
}

func matchSelectors(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	var out []string
	for _, g := range tagGroups {
		var values []string
		for _, r := range g.rules {
			if anyTokenContains(tokens, r.keywords) {
				values = append(values, r.values...)
			}
		}
		for _, v := range values {
			for _, el := range g.elements {
				out = append(out, fmt.Sprintf(`%s["%s"="%s"]`, el, g.key, v))
			}
		}
	}
	return out
}

func anyTokenContains(tokens, keywords []string) bool {
	for _, t := range tokens {
		t = strings.ToLower(t)
		for _, k := range keywords {
			if strings.Contains(t, k) {
				return true
			}
		}
	}
	return false
}

func buildQuery(selectors []string, center types.Point, radiusM int, out string) string {
	around := fmt.Sprintf("(around:%d,%f,%f);", radiusM, center.Lat, center.Lng)

	var b strings.Builder
	b.WriteString("[out:json];\n(\n")
	for _, s := range selectors {
		b.WriteString("  ")
		b.WriteString(s)
		b.WriteString(around)
		b.WriteString("\n")
	}
	b.WriteString(");\n")
	b.WriteString(out)
	return b.String()
}
