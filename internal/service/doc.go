// Package service contains the application use cases. Its central piece is
// the GenerationService, which runs the flashcard generation pipeline:
//
//  1. verify the caller owns the target deck
//  2. enforce the per-user daily quota
//  3. validate the input
//  4. call the language model through a Generator
//  5. record the generation (best effort)
//  6. assemble unaccepted proposals for the caller
//
// The quota check and the record insert are deliberately not wrapped in a
// transaction. Concurrent requests from one user may overshoot the daily
// limit by a small margin.
//
// The service layer depends on domain entities and repository interfaces
// (from store), never on specific infrastructure implementations.
package service
