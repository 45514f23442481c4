package a2anet

import "context"

// Session is an append-only log of transcript items for one conversation
// context. Implementations may persist items anywhere; see the session
// package for ready-made stores.
type Session interface {
	// Items returns the stored transcript in insertion order.
	Items(ctx context.Context) ([]Item, error)

	// AddItems appends items to the transcript.
	AddItems(ctx context.Context, items ...Item) error
}

// SessionProvider creates or opens the Session for a context identifier.
// It is invoked lazily, on the first execution that references the context.
type SessionProvider func(ctx context.Context, contextID string) (Session, error)
