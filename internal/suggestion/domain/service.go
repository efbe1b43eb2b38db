package domain

import (
	"context"
	"errors"

	sessiondomain "github.com/connectplus/connectplus/internal/session/domain"
)

// Service drafts admin-assist text from a transcript. It never writes to
// the session store; callers decide what to do with the output.
type Service interface {
	// SuggestReply proposes one reply based on the tail of the transcript.
	SuggestReply(ctx context.Context, messages []sessiondomain.Message) (string, error)
	// Summarize condenses the whole transcript to a few lines.
	Summarize(ctx context.Context, messages []sessiondomain.Message) (string, error)
}

// ErrUnavailable reports that the provider call failed; callers fall back
// to a fixed string instead of surfacing an error.
var ErrUnavailable = errors.New("suggestion_unavailable")
