package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/bethropolis/mirror/internal/logger"
)

// ErrEmpty is returned by Read when nothing has been copied yet.
var ErrEmpty = errors.New("clipboard is empty")

// Manager is a copy/paste register. When the system clipboard is enabled it
// is tried first; the internal register always holds the last copy so paste
// keeps working on machines without a clipboard tool.
type Manager struct {
	mu       sync.Mutex
	register string
	filled   bool
	system   bool
}

// NewManager creates a clipboard. useSystem is ignored when the platform has
// no clipboard support.
func NewManager(useSystem bool) *Manager {
	if useSystem && clipboard.Unsupported {
		logger.Warnf("Clipboard: system clipboard unsupported, using internal register")
		useSystem = false
	}
	return &Manager{system: useSystem}
}

// UsesSystem reports whether the system clipboard is consulted.
func (m *Manager) UsesSystem() bool {
	return m.system
}

// Write stores s. A failing system clipboard is logged, not returned; the
// internal register still receives the text.
func (m *Manager) Write(s string) {
	m.mu.Lock()
	m.register = s
	m.filled = true
	m.mu.Unlock()

	if m.system {
		if err := clipboard.WriteAll(s); err != nil {
			logger.Warnf("Clipboard: system write failed: %v", err)
		}
	}
	logger.Debugf("Clipboard: Copied %d bytes", len(s))
}

// Read returns the most recent text, preferring the system clipboard.
func (m *Manager) Read() (string, error) {
	if m.system {
		s, err := clipboard.ReadAll()
		if err == nil && s != "" {
			return s, nil
		}
		if err != nil {
			logger.Warnf("Clipboard: system read failed: %v", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.filled {
		return "", ErrEmpty
	}
	return m.register, nil
}
