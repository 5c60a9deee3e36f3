// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/mirror/internal/types" // For cursor position etc.
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style // Default background/foreground
	StyleMessage   tcell.Style // Style for temporary messages
	StyleOffline   tcell.Style // Style when the relay connection is down
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue),
		StyleMessage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true),
		StyleOffline:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon),
		MessageTimeout: 4 * time.Second,
	}
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex // Protect access to text fields

	// Content fields (will be updated externally)
	paneName  string
	cursorPos types.Position
	undoCount int
	redoCount int
	relay     string
	offline   bool
	syntax    string

	// Temporary message state
	tempMessage     string
	tempMessageTime time.Time
	now             func() time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config: config,
		now:    time.Now,
	}
}

// SetPaneInfo updates the focused pane's name and history depth.
func (sb *StatusBar) SetPaneInfo(name string, undo, redo int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.paneName = name
	sb.undoCount = undo
	sb.redoCount = redo
}

// SetCursorInfo updates the cursor position shown.
func (sb *StatusBar) SetCursorInfo(pos types.Position) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.cursorPos = pos
}

// SetRelayInfo shows where records are mirrored to. offline switches the
// bar to the offline style.
func (sb *StatusBar) SetRelayInfo(desc string, offline bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.relay = desc
	sb.offline = offline
}

// SetSyntaxInfo sets the parse summary of the focused pane. Empty hides it.
func (sb *StatusBar) SetSyntaxInfo(info string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.syntax = info
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// getDefaultDisplayText builds the default status line text.
func (sb *StatusBar) getDefaultDisplayText() string {
	// Assumes the lock is held
	name := sb.paneName
	if name == "" {
		name = "[No Pane]"
	}
	relay := "local"
	if sb.relay != "" {
		relay = sb.relay
	}
	cursor := sb.cursorPos
	text := fmt.Sprintf("%s -- Line: %d, Col: %d -- undo %d / redo %d -- %s",
		name, cursor.Line+1, cursor.Col+1, sb.undoCount, sb.redoCount, relay)
	if sb.syntax != "" {
		text += " -- " + sb.syntax
	}
	return text
}

// Text returns what Draw would print right now.
func (sb *StatusBar) Text() string {
	text, _ := sb.current()
	return text
}

// current picks the text and style to show, expiring stale messages.
func (sb *StatusBar) current() (string, tcell.Style) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	isTempMsgActive := !sb.tempMessageTime.IsZero() && sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !isTempMsgActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	if isTempMsgActive {
		return sb.tempMessage, sb.config.StyleMessage
	}
	if sb.offline {
		return sb.getDefaultDisplayText(), sb.config.StyleOffline
	}
	return sb.getDefaultDisplayText(), sb.config.StyleDefault
}

// Draw paints the bar on the last row, cutting the text with an ellipsis
// when it is wider than the screen.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	text, style := sb.current()
	if uniseg.StringWidth(text) > width {
		text = fitWidth(text, width-1) + "…"
	}

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
	x, state := 0, -1
	for text != "" {
		var cluster string
		var w int
		cluster, text, w, state = uniseg.FirstGraphemeClusterInString(text, state)
		if x+w > width {
			break
		}
		r := []rune(cluster)
		screen.SetContent(x, y, r[0], r[1:], style)
		x += w
	}
}

// fitWidth returns the longest prefix of s, in whole grapheme clusters, that
// is at most width cells wide.
func fitWidth(s string, width int) string {
	used, end, state := 0, 0, -1
	rest := s
	for rest != "" {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width {
			break
		}
		used += w
		end += len(cluster)
	}
	return s[:end]
}
