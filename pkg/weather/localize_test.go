package weather

import "testing"

func TestLocalizeKnownDescriptions(t *testing.T) {
	cases := map[string]string{
		"clear sky":       "ясное небо",
		"overcast clouds": "пасмурно",
		"thunderstorm":    "гроза",
		"snow":            "снег",
	}
	for in, want := range cases {
		if got := Localize(in); got != want {
			t.Errorf("Localize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocalizeUnknownPassesThrough(t *testing.T) {
	for _, in := range []string{"volcanic ash", "", "ЯСНОЕ НЕБО", "clear sky "} {
		if got := Localize(in); got != in {
			t.Errorf("Localize(%q) = %q, want passthrough", in, got)
		}
	}
}

func TestLocalizeIdempotent(t *testing.T) {
	for _, in := range []string{"clear sky", "light rain", "volcanic ash", ""} {
		once := Localize(in)
		if twice := Localize(once); twice != once {
			t.Errorf("Localize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCapitalizeFirst(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"ясное небо": "Ясное небо",
		"clear sky":  "Clear sky",
		"Гроза":      "Гроза",
	}
	for in, want := range cases {
		if got := CapitalizeFirst(in); got != want {
			t.Errorf("CapitalizeFirst(%q) = %q, want %q", in, got, want)
		}
	}
}
