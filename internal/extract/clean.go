package extract

import (
	"regexp"
	"strings"
)

var (
	ocrWhitespaceRe = regexp.MustCompile(`\s+`)
	ocrDisallowedRe = regexp.MustCompile(`[^\d+\-*/=().xyzXYZ²³√∫∑πθαβγ\s,]`)
	ocrFixes        = strings.NewReplacer("|", "1", "O", "0", "l", "1")
)

// CleanOCRText repairs the usual character-recognition confusions in a
// transcribed equation and drops everything that is not a digit, an
// operator, a variable or a math symbol.
func CleanOCRText(text string) string {
	text = strings.TrimSpace(ocrWhitespaceRe.ReplaceAllString(text, " "))
	text = ocrFixes.Replace(text)
	return ocrDisallowedRe.ReplaceAllString(text, "")
}
