package solver

import "strings"

// glyphReplacer rewrites typographic operators to their ASCII forms and
// drops quote characters.
var glyphReplacer = strings.NewReplacer(
	`"`, "",
	"'", "",
	"‘", "",
	"’", "",
	"“", "",
	"”", "",
	"×", "*",
	"·", "*",
	"÷", "/",
	"^", "**",
)

// Normalize canonicalizes raw problem text: lowercase, quotes stripped,
// operator glyphs rewritten, runs of whitespace collapsed to one space and
// the ends trimmed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = glyphReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
