package pipeline

import "strings"

// gbNationTokens are explicit country/nation markers for the UK market.
var gbNationTokens = []string{
	"united kingdom", "uk", "england", "scotland", "wales", "northern ireland",
}

// gbCityTokens are major UK city names accepted as location evidence.
var gbCityTokens = []string{
	"london", "manchester", "birmingham", "leeds", "glasgow", "edinburgh",
	"bristol", "cardiff", "sheffield", "liverpool", "newcastle", "nottingham",
	"leicester", "southampton", "portsmouth", "oxford", "cambridge",
	"brighton", "reading", "milton keynes", "belfast", "aberdeen", "dundee",
	"york",
}

// IsGBLocation reports whether a free-text location is in the UK. Ireland
// is checked first: "Dublin, Ireland" overlaps lexically with UK tokens and
// must never pass. Remote roles count when pinned to the UK.
func IsGBLocation(loc string) bool {
	if loc == "" {
		return false
	}
	l := strings.ToLower(loc)

	if strings.Contains(l, "ireland") && !strings.Contains(l, "northern ireland") {
		return false
	}
	if strings.Contains(l, "dublin") {
		return false
	}

	for _, t := range gbNationTokens {
		if strings.Contains(l, t) {
			return true
		}
	}
	for _, city := range gbCityTokens {
		if strings.Contains(l, city) {
			return true
		}
	}
	if strings.Contains(l, "remote") &&
		(strings.Contains(l, "uk") || strings.Contains(l, "united kingdom")) {
		return true
	}
	return false
}
