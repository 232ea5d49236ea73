package models

// GenerationIntent identifies one logical generation scope. At most one
// request per intent is in flight at a time.
type GenerationIntent string

const (
	IntentOutline        GenerationIntent = "outline"
	IntentStructure      GenerationIntent = "structure"
	IntentChapterContent GenerationIntent = "chapter-content"
	IntentAllChapters    GenerationIntent = "all-chapters"
)

// GenerationIntents lists every intent, in a stable order, for status
// reporting.
var GenerationIntents = []GenerationIntent{
	IntentOutline,
	IntentStructure,
	IntentChapterContent,
	IntentAllChapters,
}

func IsValidGenerationIntent(s string) (GenerationIntent, bool) {
	switch GenerationIntent(s) {
	case IntentOutline, IntentStructure, IntentChapterContent, IntentAllChapters:
		return GenerationIntent(s), true
	}
	return "", false
}
