package nationality

import "strings"

// isoByName maps the nationality label sources publish to an ISO 3166-1
// alpha-2 code. Home nations use their subdivision tag instead, see subdivisionByName.
var isoByName = map[string]string{
	"Afghanistan":         "AF",
	"Albania":             "AL",
	"Algeria":             "DZ",
	"Argentina":           "AR",
	"Australia":           "AU",
	"Austria":             "AT",
	"Belgium":             "BE",
	"Benin":               "BJ",
	"Brazil":              "BR",
	"Bulgaria":            "BG",
	"Burkina Faso":        "BF",
	"Cameroon":            "CM",
	"Canada":              "CA",
	"Chile":               "CL",
	"Colombia":            "CO",
	"Congo DR":            "CD",
	"Costa Rica":          "CR",
	"Cote d'Ivoire":       "CI",
	"Croatia":             "HR",
	"Czech Republic":      "CZ",
	"Czechia":             "CZ",
	"DR Congo":            "CD",
	"Denmark":             "DK",
	"Ecuador":             "EC",
	"Egypt":               "EG",
	"Finland":             "FI",
	"France":              "FR",
	"Gabon":               "GA",
	"Gambia":              "GM",
	"Georgia":             "GE",
	"Germany":             "DE",
	"Ghana":               "GH",
	"Greece":              "GR",
	"Guinea":              "GN",
	"Guinea-Bissau":       "GW",
	"Honduras":            "HN",
	"Hungary":             "HU",
	"Iceland":             "IS",
	"Iran":                "IR",
	"Ireland":             "IE",
	"Israel":              "IL",
	"Italy":               "IT",
	"Ivory Coast":         "CI",
	"Jamaica":             "JM",
	"Japan":               "JP",
	"Kenya":               "KE",
	"Kosovo":              "XK",
	"Mali":                "ML",
	"Mexico":              "MX",
	"Morocco":             "MA",
	"Mozambique":          "MZ",
	"Netherlands":         "NL",
	"New Zealand":         "NZ",
	"Nigeria":             "NG",
	"Northern Ireland":    "GB",
	"Norway":              "NO",
	"Paraguay":            "PY",
	"Peru":                "PE",
	"Poland":              "PL",
	"Portugal":            "PT",
	"Republic of Ireland": "IE",
	"Romania":             "RO",
	"Russia":              "RU",
	"Senegal":             "SN",
	"Serbia":              "RS",
	"Sierra Leone":        "SL",
	"Slovakia":            "SK",
	"Slovenia":            "SI",
	"South Africa":        "ZA",
	"South Korea":         "KR",
	"Spain":               "ES",
	"Sweden":              "SE",
	"Switzerland":         "CH",
	"Togo":                "TG",
	"Tunisia":             "TN",
	"Turkey":              "TR",
	"Ukraine":             "UA",
	"United States":       "US",
	"Uruguay":             "UY",
	"Venezuela":           "VE",
	"Zambia":              "ZM",
	"Zimbabwe":            "ZW",
}

var subdivisionByName = map[string]string{
	"England":  "gbeng",
	"Scotland": "gbsct",
	"Wales":    "gbwls",
}

var flags = buildFlags()

// Flag returns the emoji flag for a nationality label, or "" when unknown.
// Lookup is exact: the labels are the ones the sources emit.
func Flag(name string) string {
	return flags[name]
}

func buildFlags() map[string]string {
	out := make(map[string]string, len(isoByName)+len(subdivisionByName))
	for name, code := range isoByName {
		out[name] = regionalIndicator(code)
	}
	for name, tag := range subdivisionByName {
		out[name] = subdivisionTag(tag)
	}
	return out
}

func regionalIndicator(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}

// subdivisionTag builds a black-flag tag sequence (U+1F3F4, tag letters, cancel tag).
func subdivisionTag(tag string) string {
	var b strings.Builder
	b.WriteRune(0x1F3F4)
	for _, r := range strings.ToLower(tag) {
		b.WriteRune(0xE0000 + r)
	}
	b.WriteRune(0xE007F)
	return b.String()
}
