package domain

// FlashcardKind identifies how a flashcard is presented during study.
type FlashcardKind string

// Supported flashcard kinds.
const (
	// FlashcardKindQuestionAnswer is a plain question on the front and its answer on the back.
	FlashcardKindQuestionAnswer FlashcardKind = "question-answer"
	// FlashcardKindGaps is a cloze card: the front carries [gapN] markers and
	// the back the matching [answerN] entries.
	FlashcardKindGaps FlashcardKind = "gaps"
)

// Size ceilings for AI-generated flashcard sides, in characters.
const (
	MaxFrontLength = 200
	MaxBackLength  = 500
)

// FlashcardKinds lists every supported kind in a stable order.
func FlashcardKinds() []FlashcardKind {
	return []FlashcardKind{FlashcardKindQuestionAnswer, FlashcardKindGaps}
}

// Valid reports whether k is a supported kind.
func (k FlashcardKind) Valid() bool {
	switch k {
	case FlashcardKindQuestionAnswer, FlashcardKindGaps:
		return true
	default:
		return false
	}
}

// AIFlashcard is a single flashcard produced by the language model after it
// has passed response validation.
type AIFlashcard struct {
	Kind  FlashcardKind `json:"kind"`
	Front string        `json:"front"`
	Back  string        `json:"back"`
}
