// Package domain contains the core entities of flashcard generation: the
// validated AI flashcard, the proposal handed back to the caller, and the
// generation record kept for quota and analytics. It has no knowledge of
// storage, transport or the language model provider.
package domain
