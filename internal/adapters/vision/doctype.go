package vision

import (
	"regexp"
	"strings"
)

const GeneralDocument = "General Document"

var arithmetic = regexp.MustCompile(`\d+\s*[+\-*/=]\s*\d+`)

var documentTypes = []struct {
	label    string
	keywords []string
}{
	{"Mathematics", []string{"theorem", "proof"}},
	{"Literature", []string{"chapter", "essay", "literature"}},
	{"Science", []string{"experiment", "hypothesis", "molecule"}},
	{"History", []string{"history", "century", "war"}},
	{"Computer Science", []string{"function", "algorithm", "code"}},
}

// DetectDocumentType labels extracted text by keyword search, first match
// wins. Any arithmetic expression counts as mathematics.
func DetectDocumentType(text string) string {
	lower := strings.ToLower(text)
	for i, dt := range documentTypes {
		if i == 0 && arithmetic.MatchString(text) {
			return dt.label
		}
		for _, kw := range dt.keywords {
			if strings.Contains(lower, kw) {
				return dt.label
			}
		}
	}
	return GeneralDocument
}
