package render

import (
	"strings"
	"unicode"
)

// Project names arrive as kebab-case, snake_case, camelCase or PascalCase.
// The converters below normalize through a shared word split so every
// variant of the same name agrees.

// PascalCase converts a name to PascalCase.
// Examples: my-app → MyApp, my_cool_app → MyCoolApp, api-server → APIServer
func PascalCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = capitalizeWord(word)
	}
	return strings.Join(words, "")
}

// CamelCase converts a name to camelCase.
// Examples: my-app → myApp, MyApp → myApp, api-server → apiServer
func CamelCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		if i == 0 {
			words[i] = strings.ToLower(word)
		} else {
			words[i] = capitalizeWord(word)
		}
	}
	return strings.Join(words, "")
}

// SnakeCase converts a name to snake_case.
// Examples: MyApp → my_app, my-app → my_app, HTTPServer → http_server
func SnakeCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}

// KebabCase converts a name to kebab-case.
// Examples: MyApp → my-app, my_app → my-app, HTTPServer → http-server
func KebabCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "-")
}

// splitWords breaks a name into words on separators and case boundaries.
// Consecutive uppercase runs stay together so acronyms survive:
// "HTTPServer" → ["HTTP", "Server"], "my-app" → ["my", "app"].
func splitWords(s string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					flush()
				} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					flush()
				}
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return words
}

// capitalizeWord capitalizes a word with special handling for acronyms
func capitalizeWord(s string) string {
	if s == "" {
		return ""
	}

	// Common acronyms that should be all-caps
	acronyms := map[string]string{
		"id":    "ID",
		"url":   "URL",
		"uri":   "URI",
		"http":  "HTTP",
		"https": "HTTPS",
		"api":   "API",
		"uuid":  "UUID",
		"sql":   "SQL",
		"html":  "HTML",
		"css":   "CSS",
		"json":  "JSON",
		"xml":   "XML",
		"ip":    "IP",
		"tcp":   "TCP",
		"udp":   "UDP",
		"tls":   "TLS",
		"ssl":   "SSL",
		"db":    "DB",
		"ui":    "UI",
		"os":    "OS",
		"cli":   "CLI",
	}

	lower := strings.ToLower(s)
	if acronym, ok := acronyms[lower]; ok {
		return acronym
	}

	return strings.ToUpper(string(s[0])) + strings.ToLower(s[1:])
}
