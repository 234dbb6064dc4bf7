// Package language classifies organization names into the content language
// used for prompt selection.
package language

// Language identifies the language a cover letter should be written in.
type Language string

const (
	// Chinese is selected when the organization name contains CJK ideographs.
	Chinese Language = "chinese"
	// English is the default for Latin-script organization names.
	English Language = "english"
)

// Detect classifies an organization name by script. Any rune inside the CJK
// Unified Ideographs block marks the name as Chinese; everything else is
// English. Detect is total and never fails.
func Detect(name string) Language {
	for _, r := range name {
		if r >= 0x4E00 && r <= 0x9FFF {
			return Chinese
		}
	}
	return English
}
