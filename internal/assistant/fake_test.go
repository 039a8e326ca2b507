package assistant

import (
	"context"
	"errors"
	"sync"
)

// scriptedBackend replays canned replies and records what it was sent.
type scriptedBackend struct {
	mu      sync.Mutex
	openErr error
	replies []Reply
	errs    []error
	setups  []Setup
	sent    []string
	results [][]ToolResult
}

func (b *scriptedBackend) Open(_ context.Context, setup Setup) (Conversation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.setups = append(b.setups, setup)
	return &scriptedConversation{b: b}, nil
}

func (b *scriptedBackend) next() (Reply, error) {
	if len(b.errs) > 0 {
		err := b.errs[0]
		b.errs = b.errs[1:]
		if err != nil {
			return Reply{}, err
		}
	}
	if len(b.replies) == 0 {
		return Reply{}, errors.New("script exhausted")
	}
	r := b.replies[0]
	b.replies = b.replies[1:]
	return r, nil
}

type scriptedConversation struct {
	b *scriptedBackend
}

func (c *scriptedConversation) Send(_ context.Context, text string) (Reply, error) {
	c.b.mu.Lock()
	defer c.b.mu.Unlock()
	c.b.sent = append(c.b.sent, text)
	return c.b.next()
}

func (c *scriptedConversation) Respond(_ context.Context, results []ToolResult) (Reply, error) {
	c.b.mu.Lock()
	defer c.b.mu.Unlock()
	c.b.results = append(c.b.results, results)
	return c.b.next()
}
