// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/mirror/internal/config"
	"github.com/bethropolis/mirror/internal/core"
	"github.com/bethropolis/mirror/internal/core/clipboard"
	"github.com/bethropolis/mirror/internal/input"
	"github.com/bethropolis/mirror/internal/logger"
	"github.com/bethropolis/mirror/internal/relay"
	"github.com/bethropolis/mirror/internal/statusbar"
	"github.com/bethropolis/mirror/internal/syntax"
	"github.com/bethropolis/mirror/internal/tui"
)

const dialTimeout = 5 * time.Second

// App encapsulates the panes, the group mirroring them and the main loop.
type App struct {
	cfg       *config.Config
	filePath  string
	tui       *tui.TUI
	group     *core.Group
	panes     []*tui.Pane
	trackers  []*syntax.Tracker // parallel to panes, empty when no language matched
	focus     int
	statusBar *statusbar.StatusBar
	input     *input.InputProcessor
	clipboard *clipboard.Manager

	relay       *relay.Client
	relayCancel context.CancelFunc
	relayDone   chan struct{}

	closeOnce sync.Once
}

type options struct {
	screen    tcell.Screen
	clipboard *clipboard.Manager
}

// Option customises New.
type Option func(*options)

// WithScreen draws on s instead of the real terminal.
func WithScreen(s tcell.Screen) Option {
	return func(o *options) { o.screen = s }
}

// WithClipboard replaces the clipboard built from the config.
func WithClipboard(c *clipboard.Manager) Option {
	return func(o *options) { o.clipboard = c }
}

// New creates the editors, loads filePath (if any) into them and connects
// to the relay when one is configured. A relay that cannot be reached
// leaves the app running locally.
func New(cfg *config.Config, filePath string, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	var (
		t   *tui.TUI
		err error
	)
	if o.screen != nil {
		t, err = tui.NewWithScreen(o.screen)
	} else {
		t, err = tui.New()
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	content, loadErr := loadFile(filePath)

	a := &App{
		cfg:       cfg,
		filePath:  filePath,
		tui:       t,
		group:     core.NewGroup(),
		statusBar: statusbar.New(statusbar.DefaultConfig()),
		input:     input.NewInputProcessor(),
		clipboard: o.clipboard,
	}
	if a.clipboard == nil {
		a.clipboard = clipboard.NewManager(cfg.Editor.SystemClipboard)
	}

	lang := syntax.ForFile(filePath)
	panes := max(cfg.Editor.Panes, config.MinPanes)
	for i := 0; i < panes; i++ {
		ed := core.NewEditor(
			core.WithMaxHistory(cfg.History.MaxEntries),
			core.WithMerge(cfg.History.MergeEdits),
			core.WithMaxDiffTokens(cfg.History.MaxDiffTokens),
			core.WithMaxDiffMemory(cfg.History.MaxDiffMemoryMB),
		)
		if i == 0 {
			ed.SetContent(content)
		}
		a.group.Join(ed)
		a.panes = append(a.panes, tui.NewPane(ed, fmt.Sprintf("pane %d", i+1), cfg.Editor.TabWidth))

		if lang != nil {
			tr, err := syntax.NewTracker(lang)
			if err == nil {
				err = tr.Attach(ed)
			}
			if err != nil {
				logger.Warnf("App: syntax tracking disabled for %s: %v", filePath, err)
				a.closeTrackers()
				lang = nil
				continue
			}
			a.trackers = append(a.trackers, tr)
		}
	}

	if loadErr != nil {
		a.statusBar.SetTemporaryMessage("Error loading %s: %v", filePath, loadErr)
	}

	a.connectRelay()
	return a, nil
}

// loadFile reads path. A missing file starts an empty document.
func loadFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Infof("App: %s does not exist, starting empty", path)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

// connectRelay dials the configured relay and starts forwarding remote
// records into the event loop.
func (a *App) connectRelay() {
	url := a.cfg.Relay.URL
	if url == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	c, err := relay.Dial(ctx, url, a.cfg.Relay.Document)
	cancel()
	if err != nil {
		logger.Warnf("App: relay unavailable, editing locally: %v", err)
		a.statusBar.SetRelayInfo("relay offline", true)
		return
	}

	a.relay = c
	a.group.SetPublisher(c)
	a.statusBar.SetRelayInfo(fmt.Sprintf("relay %s", a.cfg.Relay.Document), false)

	runCtx, runCancel := context.WithCancel(context.Background())
	a.relayCancel = runCancel
	a.relayDone = make(chan struct{})
	go a.readRelay(runCtx, c)
}

// Run starts the event loop and blocks until the user quits.
func (a *App) Run() error {
	defer a.Close()

	a.statusBar.SetTemporaryMessage("Mirror - Tab switch pane | Ctrl+Z undo | Ctrl+Y redo | Esc quit")
	for {
		a.drawEditor()
		ev := a.tui.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.HandleEvent(ev) {
			logger.Infof("App: exiting")
			return nil
		}
	}
}

// Close disconnects the relay and restores the terminal. Safe to call twice.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.relay != nil {
			a.relayCancel()
			_ = a.relay.Close()
			<-a.relayDone
		}
		a.closeTrackers()
		a.tui.Close()
	})
}

func (a *App) closeTrackers() {
	for _, tr := range a.trackers {
		tr.Close()
	}
	a.trackers = nil
}

// Editors returns the editors in pane order.
func (a *App) Editors() []*core.Editor {
	return a.group.Editors()
}

// Focused returns the editor of the focused pane.
func (a *App) Focused() *core.Editor {
	return a.panes[a.focus].Editor
}

// StatusBar exposes the status line.
func (a *App) StatusBar() *statusbar.StatusBar {
	return a.statusBar
}
