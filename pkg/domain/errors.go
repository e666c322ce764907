package domain

import "errors"

var (
	ErrEmptyMessage     = errors.New("message content is empty")
	ErrConversationBusy = errors.New("a reply is already being generated")
	ErrBatchActive      = errors.New("a batch conversation is already running")
	ErrEmptyBatch       = errors.New("at least one prompt id is required")
	ErrMissingAPIKey    = errors.New("API key is not configured, set it in the model settings first")
)
