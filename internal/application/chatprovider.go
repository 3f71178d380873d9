package application

import (
	"sync"

	"github.com/ericfisherdev/prbridge/internal/domain/port/driven"
)

// ChatClientProvider holds a mutex-protected reference to the current chat
// client, allowing credential updates to take effect without restarting the
// application. A nil client means the bridge has no identity it can post
// or edit messages with; the reconciler treats that as an unmet
// precondition and skips the run silently.
type ChatClientProvider struct {
	mu     sync.RWMutex
	client driven.ChatClient
}

// NewChatClientProvider creates a provider with the given initial client.
// client may be nil if no chat credentials are available at startup.
func NewChatClientProvider(client driven.ChatClient) *ChatClientProvider {
	return &ChatClientProvider{client: client}
}

// Get returns the current chat client. Callers must check for nil if the
// provider was created without initial credentials.
func (p *ChatClientProvider) Get() driven.ChatClient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Replace swaps the current client. The next caller of Get receives the
// new value.
func (p *ChatClientProvider) Replace(client driven.ChatClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
}

// HasClient returns true if a non-nil client is currently held.
func (p *ChatClientProvider) HasClient() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client != nil
}
