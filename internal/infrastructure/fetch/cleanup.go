package fetch

import "regexp"

// Page-extraction artifacts that survive into the raw text: lone page
// numbers, header/footer glyph runs, words hyphenated across line breaks,
// and runs of blank lines.
var (
	pageNumberLinePattern = regexp.MustCompile(`\n\s*\d+\s*\n`)
	junkLinePattern       = regexp.MustCompile(`\n[^a-zA-Z0-9\s.,;:()\[\]{}\-_=+*/\\]{2,}\n`)
	hyphenBreakPattern    = regexp.MustCompile(`(\w+)-\n(\w+)`)
	blankRunPattern       = regexp.MustCompile(`\n{3,}`)
)

// CleanArtifacts strips page-layout noise from extracted document text.
func CleanArtifacts(text string) string {
	text = pageNumberLinePattern.ReplaceAllString(text, "\n")
	text = junkLinePattern.ReplaceAllString(text, "\n")
	text = hyphenBreakPattern.ReplaceAllString(text, "${1}${2}")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return text
}
