package feedrank

import "github.com/loomboard/feedrank/internal/domain"

// Sentinel errors surfaced by the client. Match with errors.Is.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrAlreadyExists    = domain.ErrAlreadyExists
	ErrInvalidArgument  = domain.ErrInvalidArgument
	ErrTopicNotFound    = domain.ErrTopicNotFound
	ErrSectionNotFound  = domain.ErrSectionNotFound
	ErrUserNotFound     = domain.ErrUserNotFound
	ErrPostNotFound     = domain.ErrPostNotFound
	ErrImplicationCycle = domain.ErrImplicationCycle
	ErrSectionMismatch  = domain.ErrSectionMismatch
	ErrInvalidReaction  = domain.ErrInvalidReaction
)
