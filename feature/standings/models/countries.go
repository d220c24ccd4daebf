package models

import "strings"

// flagByCode maps IOC codes to flag emoji for display.
var flagByCode = map[string]string{
	"NOR": "🇳🇴", "USA": "🇺🇸", "ITA": "🇮🇹", "JPN": "🇯🇵", "AUT": "🇦🇹",
	"GER": "🇩🇪", "CZE": "🇨🇿", "FRA": "🇫🇷", "SWE": "🇸🇪", "SUI": "🇨🇭",
	"CHE": "🇨🇭", "KOR": "🇰🇷", "SLO": "🇸🇮", "BUL": "🇧🇬", "CAN": "🇨🇦",
	"CHN": "🇨🇳", "NED": "🇳🇱", "FIN": "🇫🇮", "GBR": "🇬🇧", "AUS": "🇦🇺",
	"NZL": "🇳🇿", "ESP": "🇪🇸", "POL": "🇵🇱", "BEL": "🇧🇪", "ROU": "🇷🇴",
	"HUN": "🇭🇺", "CRO": "🇭🇷", "SVK": "🇸🇰", "UKR": "🇺🇦", "BLR": "🇧🇾",
	"KAZ": "🇰🇿", "LAT": "🇱🇻", "EST": "🇪🇪", "LTU": "🇱🇹", "DEN": "🇩🇰",
}

// nameByCode maps IOC codes to full country names.
var nameByCode = map[string]string{
	"NOR": "Norway", "USA": "United States", "ITA": "Italy", "JPN": "Japan",
	"AUT": "Austria", "GER": "Germany", "CZE": "Czechia", "FRA": "France",
	"SWE": "Sweden", "SUI": "Switzerland", "CHE": "Switzerland", "KOR": "South Korea",
	"SLO": "Slovenia", "BUL": "Bulgaria", "CAN": "Canada", "CHN": "China",
	"NED": "Netherlands", "FIN": "Finland", "GBR": "Great Britain", "AUS": "Australia",
	"NZL": "New Zealand", "ESP": "Spain", "POL": "Poland", "BEL": "Belgium",
	"ROU": "Romania", "HUN": "Hungary", "CRO": "Croatia", "SVK": "Slovakia",
	"UKR": "Ukraine", "KAZ": "Kazakhstan", "LAT": "Latvia", "EST": "Estonia",
	"LTU": "Lithuania", "DEN": "Denmark",
}

// codeByName resolves lowercase country names, name fragments, and common
// demonyms back to IOC codes. Built once at init.
var codeByName = buildCodeByName()

func buildCodeByName() map[string]string {
	m := make(map[string]string, len(nameByCode)*2)
	for code, name := range nameByCode {
		lower := strings.ToLower(name)
		m[lower] = code
		for _, part := range strings.Fields(lower) {
			if len(part) > 3 {
				m[part] = code
			}
		}
	}
	// Demonyms seen in prose on the source pages.
	for word, code := range map[string]string{
		"swiss": "SUI", "chinese": "CHN", "american": "USA", "japanese": "JPN",
		"norwegian": "NOR", "italian": "ITA", "german": "GER", "french": "FRA",
		"austrian": "AUT", "swedish": "SWE", "canadian": "CAN", "korean": "KOR",
		"czech": "CZE", "slovenian": "SLO", "dutch": "NED", "finnish": "FIN",
		"british": "GBR", "australian": "AUS",
	} {
		m[word] = code
	}
	return m
}

// CountryName returns the full name for an IOC code, or the code itself.
func CountryName(code string) string {
	if name, ok := nameByCode[code]; ok {
		return name
	}
	return code
}

// CountryFlag returns the flag emoji for an IOC code, or a neutral flag.
func CountryFlag(code string) string {
	if flag, ok := flagByCode[code]; ok {
		return flag
	}
	return "🏳️"
}

// CountryCode resolves a country name or demonym to an IOC code.
// Returns "" when the word is unknown.
func CountryCode(word string) string {
	return codeByName[strings.ToLower(strings.TrimSpace(word))]
}
