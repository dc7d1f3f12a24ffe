package generator

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// defaultFuncMap returns the built-in template functions
func defaultFuncMap() map[string]any {
	return map[string]any{
		// Case conversion
		"pascalCase": PascalCase, // user_name → UserName
		"camelCase":  CamelCase,  // user_name → userName
		"snakeCase":  SnakeCase,  // UserName → user_name
		"kebabCase":  KebabCase,  // UserName → user-name

		// String manipulation
		"plural":    Pluralize, // user → users
		"quote":     Quote,     // test → "test"
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     Title,
		"trim":      strings.TrimSpace,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,

		// Utilities
		"default": Default, // Provide default value if nil/empty
	}
}

var builtinNames = func() map[string]bool {
	names := make(map[string]bool)
	for name := range defaultFuncMap() {
		names[name] = true
	}
	// text/template's own functions and keywords
	for _, name := range []string{
		"and", "call", "html", "index", "slice", "js", "len", "not", "or",
		"print", "printf", "println", "urlquery", "eq", "ge", "gt", "le", "lt", "ne",
		"if", "else", "end", "range", "with", "define", "template", "block",
		"break", "continue", "nil",
	} {
		names[name] = true
	}
	return names
}()

// IsBuiltin reports whether name is a built-in template function.
func IsBuiltin(name string) bool {
	return builtinNames[name]
}

// splitWords breaks s into words on separators and case changes.
func splitWords(s string) []string {
	var words []string
	var current []rune
	runes := []rune(s)

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			// Break before an upper-case letter that starts a new word:
			// fooBar → foo|Bar, HTTPServer → HTTP|Server.
			if i > 0 && len(current) > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					flush()
				}
			}
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return words
}

// PascalCase converts snake_case, kebab-case or camelCase to PascalCase
// Examples: user_name → UserName, my-app → MyApp
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range splitWords(s) {
		b.WriteString(capitalizeWord(w))
	}
	return b.String()
}

// CamelCase converts to camelCase
// Examples: user_name → userName, UserName → userName
func CamelCase(s string) string {
	words := splitWords(s)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(capitalizeWord(w))
	}
	return b.String()
}

// SnakeCase converts to snake_case
// Examples: UserName → user_name, HTTPServer → http_server
func SnakeCase(s string) string {
	return joinLower(s, "_")
}

// KebabCase converts to kebab-case
// Examples: UserName → user-name, my_app → my-app
func KebabCase(s string) string {
	return joinLower(s, "-")
}

func joinLower(s, sep string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}

func capitalizeWord(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Quote wraps a string in double quotes
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Title converts a string to title case (first letter of each word capitalized)
func Title(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = capitalizeWord(word)
	}
	return strings.Join(words, " ")
}

// Default returns the default value if the given value is nil or empty
func Default(defaultVal, val any) any {
	if val == nil {
		return defaultVal
	}
	if s, ok := val.(string); ok && s == "" {
		return defaultVal
	}
	return val
}

// Pluralize converts singular nouns to plural form using common English rules
func Pluralize(word string) string {
	if word == "" {
		return ""
	}

	lower := strings.ToLower(word)

	irregulars := map[string]string{
		"person": "people",
		"child":  "children",
		"man":    "men",
		"woman":  "women",
		"mouse":  "mice",
	}
	if plural, ok := irregulars[lower]; ok {
		if unicode.IsUpper(rune(word[0])) {
			return strings.ToUpper(plural[:1]) + plural[1:]
		}
		return plural
	}

	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(word) > 1 && !isVowel(lower[len(lower)-2]):
		return word[:len(word)-1] + "ies"
	default:
		return word + "s"
	}
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiou", c) >= 0
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}
