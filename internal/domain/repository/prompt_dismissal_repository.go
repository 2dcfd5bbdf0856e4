package repository

import (
	"context"
)

// PromptDismissalRepository remembers which prompts a session has dismissed,
// so they stay hidden before the prompted flag reaches the store.
type PromptDismissalRepository interface {
	Dismiss(ctx context.Context, sessionID, contactID string) error
	DismissedIDs(ctx context.Context, sessionID string) (map[string]struct{}, error)
}
