package ai

import "sync"

// Toggle is the shared "AI suggestions enabled" setting. One value is
// injected into every buffer's mediator calls.
type Toggle struct {
	mu       sync.RWMutex
	enabled  bool
	onChange func(bool)
}

// NewToggle creates a toggle with the given initial state
func NewToggle(enabled bool) *Toggle {
	return &Toggle{enabled: enabled}
}

// Enabled reports the current state
func (t *Toggle) Enabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Set changes the state and notifies the change hook
func (t *Toggle) Set(enabled bool) {
	t.mu.Lock()
	t.enabled = enabled
	hook := t.onChange
	t.mu.Unlock()

	if hook != nil {
		hook(enabled)
	}
}

// OnChange registers fn to be called after every Set
func (t *Toggle) OnChange(fn func(bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}
