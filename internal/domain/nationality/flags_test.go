package nationality

import "testing"

func TestFlag(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Brazil":           "\U0001f1e7\U0001f1f7",
		"Ivory Coast":      "\U0001f1e8\U0001f1ee",
		"Cote d'Ivoire":    "\U0001f1e8\U0001f1ee",
		"Northern Ireland": "\U0001F1EC\U0001F1E7",
		"England":          "\U0001F3F4\U000E0067\U000E0062\U000E0065\U000E006E\U000E0067\U000E007F",
		"Wales":            "\U0001F3F4\U000E0067\U000E0062\U000E0077\U000E006C\U000E0073\U000E007F",
		"Atlantis":         "",
		"brazil":           "",
		"":                 "",
	}
	for name, want := range cases {
		if got := Flag(name); got != want {
			t.Fatalf("Flag(%q)=%q want %q", name, got, want)
		}
	}
}
