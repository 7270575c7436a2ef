package api

import (
	"encoding/json"
	"time"

	"github.com/phrazzld/flashdeck-api/internal/domain"
	"github.com/phrazzld/flashdeck-api/internal/service"
)

// GenerateFlashcardsRequest is the body of POST /api/decks/{deckID}/generations.
// SourceText stays raw so a non-string value can be reported as such.
type GenerateFlashcardsRequest struct {
	SourceText     json.RawMessage `json:"source_text"`
	RequestedCount *int            `json:"requested_count,omitempty"`
}

// ProposalResponse is one unaccepted flashcard proposal.
type ProposalResponse struct {
	Kind         string  `json:"kind"`
	Front        string  `json:"front"`
	Back         string  `json:"back"`
	Source       string  `json:"source"`
	GenerationID *string `json:"generation_id"`
	DeckID       string  `json:"deck_id"`
	Accepted     bool    `json:"accepted"`
}

// GenerationResponse is returned by a successful generation.
// GenerationID is empty when the generation could not be recorded.
type GenerationResponse struct {
	GenerationID   string             `json:"generation_id"`
	GeneratedCount int                `json:"generated_count"`
	Proposals      []ProposalResponse `json:"proposals"`
	CreatedAt      time.Time          `json:"created_at"`
}

// QuotaResponse describes the caller's daily generation quota.
type QuotaResponse struct {
	Used      int       `json:"used"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetsAt  time.Time `json:"resets_at"`
}

func generationToResponse(result *service.GenerationResult) GenerationResponse {
	resp := GenerationResponse{
		GenerationID:   result.GenerationID,
		GeneratedCount: result.GeneratedCount,
		Proposals:      make([]ProposalResponse, 0, len(result.Proposals)),
		CreatedAt:      result.CreatedAt,
	}
	for _, p := range result.Proposals {
		resp.Proposals = append(resp.Proposals, proposalToResponse(p))
	}
	return resp
}

func proposalToResponse(p domain.FlashcardProposal) ProposalResponse {
	resp := ProposalResponse{
		Kind:     string(p.Kind),
		Front:    p.Front,
		Back:     p.Back,
		Source:   p.Source,
		DeckID:   p.DeckID.String(),
		Accepted: p.Accepted,
	}
	if p.GenerationID != nil {
		id := p.GenerationID.String()
		resp.GenerationID = &id
	}
	return resp
}

func quotaToResponse(q *service.QuotaStatus) QuotaResponse {
	return QuotaResponse{
		Used:      q.Used,
		Limit:     q.Limit,
		Remaining: q.Remaining,
		ResetsAt:  q.ResetsAt,
	}
}
