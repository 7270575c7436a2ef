// Package gemini adapts Google's Gemini API to generation.Provider using the
// google.golang.org/genai SDK.
//
// The system message becomes the system instruction and the response format
// is sent as a JSON schema with the application/json MIME type. Candidates
// stopped by the safety filter carry no text and surface as an empty answer.
package gemini
