package domain

import "errors"

// FallbackAnswer is rendered whenever no generated answer is available.
const FallbackAnswer = "An error occurred"

var (
	ErrNoQuestion        = errors.New("No question provided")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrMissingCredential = errors.New("generation API key is not configured")
	ErrEmptyResponse     = errors.New("empty response from generation service")
	ErrRetrievalFailed   = errors.New("document search failed")
	ErrIndexNotFound     = errors.New("document index not found")
	ErrIndexCorrupt      = errors.New("document index is corrupt")
	ErrEmbedderMismatch  = errors.New("embedder does not match index")
)
