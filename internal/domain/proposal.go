package domain

import "github.com/google/uuid"

// ProposalSourceAIFull marks a proposal generated entirely by the language model.
const ProposalSourceAIFull = "ai-full"

// FlashcardProposal is an unaccepted flashcard candidate returned to the
// caller for review. Accepting it, and persisting it as a real flashcard, is
// the caller's decision.
type FlashcardProposal struct {
	Kind         FlashcardKind `json:"kind"`
	Front        string        `json:"front"`
	Back         string        `json:"back"`
	Source       string        `json:"source"`
	GenerationID *uuid.UUID    `json:"generation_id"`
	DeckID       uuid.UUID     `json:"deck_id"`
	Accepted     bool          `json:"accepted"`
}

// AssembleProposals maps validated flashcards to proposals for deckID.
// Order is preserved. generationID is nil when no generation record exists;
// each proposal gets its own copy of the pointer value.
func AssembleProposals(cards []AIFlashcard, generationID *uuid.UUID, deckID uuid.UUID) []FlashcardProposal {
	proposals := make([]FlashcardProposal, 0, len(cards))
	for _, card := range cards {
		var genID *uuid.UUID
		if generationID != nil {
			id := *generationID
			genID = &id
		}
		proposals = append(proposals, FlashcardProposal{
			Kind:         card.Kind,
			Front:        card.Front,
			Back:         card.Back,
			Source:       ProposalSourceAIFull,
			GenerationID: genID,
			DeckID:       deckID,
			Accepted:     false,
		})
	}
	return proposals
}
