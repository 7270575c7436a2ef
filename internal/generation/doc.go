// Package generation turns free text into validated flashcards using a
// large language model.
//
// It owns every step between the caller's input and the typed result:
// input validation (ValidateInput), deterministic prompt rendering
// (BuildMessages), the strict JSON schema the model must satisfy
// (FlashcardsSchema), a provider-agnostic structured client with bounded
// exponential backoff (Client), and validation of the raw completion
// (ParseFlashcards). Concrete providers live in internal/platform and
// implement the Provider interface.
package generation
