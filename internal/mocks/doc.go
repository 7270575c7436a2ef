// Package mocks provides centralized mock implementations for testing.
//
// Stores and the generator use function fields or scripted values; the
// generation store embeds testify's mock.Mock for expectation-style tests.
//
//	provider := &mocks.MockProvider{
//	    Results: []mocks.ProviderResult{
//	        {Err: &generation.StatusError{StatusCode: 429}},
//	        {Completion: mocks.TextCompletion(`{"flashcards":[]}`)},
//	    },
//	}
package mocks
