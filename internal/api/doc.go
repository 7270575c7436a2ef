// Package api exposes the flashcard generation pipeline over HTTP. It
// decodes and validates requests, calls the generation service and maps the
// service's sentinel errors to status codes and safe client messages.
package api
