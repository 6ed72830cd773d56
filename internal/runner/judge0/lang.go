package judge0

import (
	"sort"
	"strings"
)

var languageIds = map[string]int{
	"javascript": 63,
	"python":     71,
	"java":       62,
	"cpp":        54,
	"typescript": 74,
}

var languageNames = map[int]string{
	74: "TypeScript",
	63: "JavaScript",
	71: "Python",
	62: "Java",
	54: "C++",
}

// ResolveLanguageId maps a case-insensitive language name to its judge id.
// The second value is false when the language is not supported.
func ResolveLanguageId(name string) (int, bool) {
	id, ok := languageIds[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

func LanguageName(id int) string {
	if name, ok := languageNames[id]; ok {
		return name
	}
	return "Unknown"
}

type Language struct {
	Name        string `json:"name"`
	Id          int    `json:"id"`
	DisplayName string `json:"display_name"`
}

// SupportedLanguages lists the lookup table sorted by name.
func SupportedLanguages() []Language {
	langs := make([]Language, 0, len(languageIds))
	for name, id := range languageIds {
		langs = append(langs, Language{Name: name, Id: id, DisplayName: LanguageName(id)})
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].Name < langs[j].Name })
	return langs
}
