package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument signals a failed validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSectionNotFound signals an unresolvable section name.
	ErrSectionNotFound = fmt.Errorf("section %w", ErrNotFound)
	// ErrUserNotFound signals an unresolvable user login.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrTopicNotFound signals an unresolvable topic reference.
	ErrTopicNotFound = fmt.Errorf("topic %w", ErrNotFound)
	// ErrPostNotFound signals a missing post.
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)

	// ErrImplicationCycle signals that a topic implication would create a loop.
	ErrImplicationCycle = errors.New("implication creates a loop")
	// ErrSectionMismatch signals implication endpoints in different sections.
	ErrSectionMismatch = errors.New("topics belong to different sections")
	// ErrInvalidReaction signals a vote reaction other than +1 or -1.
	ErrInvalidReaction = errors.New("reaction must be +1 or -1")
)
