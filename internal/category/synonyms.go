package category

import "strings"

// Static synonym classes for product category keywords. The table is
// symmetric: if A lists B then B lists A, so expansion is a single
// lookup rather than a graph walk. Loaded once at init, never mutated
// from request paths.
var categorySynonyms = map[string][]string{
	"fashion":     {"clothing", "clothes", "apparel"},
	"clothing":    {"fashion", "clothes", "apparel"},
	"clothes":     {"fashion", "clothing", "apparel"},
	"apparel":     {"fashion", "clothing", "clothes"},
	"charity":     {"charities", "fundraising", "not-for-profit"},
	"charities":   {"charity", "fundraising", "not-for-profit"},
	"fundraising": {"charity", "charities", "not-for-profit"},
	"food":        {"beverage", "drinks", "snacks"},
	"beverage":    {"food", "drinks", "snacks"},
	"drinks":      {"food", "beverage", "snacks"},
	"snacks":      {"food", "beverage", "drinks"},
	"coffee":      {"cafe", "espresso", "barista"},
	"cafe":        {"coffee", "espresso", "barista"},
	"ugg":         {"uggs", "sheepskin", "slippers"},
	"uggs":        {"ugg", "sheepskin", "slippers"},
	"sheepskin":   {"ugg", "uggs", "slippers"},
	"phone":       {"phones", "mobile", "telco", "accessories"},
	"phones":      {"phone", "mobile", "telco", "accessories"},
	"mobile":      {"phone", "phones", "telco"},
	"telco":       {"phone", "phones", "mobile"},
	"jewellery":   {"jewelry", "accessories"},
	"jewelry":     {"jewellery", "accessories"},
	"beauty":      {"cosmetics", "skincare", "makeup"},
	"cosmetics":   {"beauty", "skincare", "makeup"},
	"makeup":      {"beauty", "cosmetics", "skincare"},
	"toys":        {"games", "hobbies"},
	"games":       {"toys", "hobbies"},
	"kiosk":       {"cart", "stall", "popup"},
	"popup":       {"kiosk", "cart", "stall"},
	"homewares":   {"home", "manchester", "kitchenware"},
	"fitness":     {"gym", "health", "wellness"},
	"gym":         {"fitness", "health", "wellness"},
}

// Expand returns the equivalence class for a category keyword: the
// lower-cased, trimmed keyword itself plus every configured synonym.
// Unknown keywords expand to a singleton set. The returned map is a
// fresh copy; the underlying table is never mutated.
func Expand(keyword string) map[string]bool {
	normalized := strings.ToLower(strings.TrimSpace(keyword))

	expanded := map[string]bool{normalized: true}
	for _, synonym := range categorySynonyms[normalized] {
		expanded[synonym] = true
	}

	return expanded
}
