package weather

import "unicode"

// descriptions maps the provider's English condition vocabulary to the
// phrases shown to users. Unknown descriptions pass through unchanged.
var descriptions = map[string]string{
	"clear sky":            "ясное небо",
	"few clouds":           "малооблачно",
	"scattered clouds":     "рассеянные облака",
	"broken clouds":        "облачность с прояснениями",
	"overcast clouds":      "пасмурно",
	"light rain":           "небольшой дождь",
	"moderate rain":        "умеренный дождь",
	"heavy intensity rain": "сильный дождь",
	"thunderstorm":         "гроза",
	"snow":                 "снег",
}

// Localize translates a provider description by exact match on the full
// phrase. Total and idempotent over the table's value set.
func Localize(description string) string {
	if localized, ok := descriptions[description]; ok {
		return localized
	}
	return description
}

// CapitalizeFirst upper-cases the first rune of s.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
