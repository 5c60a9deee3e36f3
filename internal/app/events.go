package app

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/mirror/internal/core/clipboard"
	"github.com/bethropolis/mirror/internal/core/history"
	"github.com/bethropolis/mirror/internal/input"
	"github.com/bethropolis/mirror/internal/logger"
	"github.com/bethropolis/mirror/internal/relay"
)

const postRetry = 10 * time.Millisecond

// remoteRecordEvent carries a record from the relay reader to the event loop,
// which is the only goroutine allowed to touch the editors.
type remoteRecordEvent struct {
	tcell.EventTime
	rec history.Record
}

// relayClosedEvent tells the event loop the relay connection ended.
type relayClosedEvent struct {
	tcell.EventTime
	err error
}

// readRelay runs on its own goroutine until the connection ends.
func (a *App) readRelay(ctx context.Context, c *relay.Client) {
	defer close(a.relayDone)
	err := c.Run(ctx, func(rec history.Record) error {
		ev := &remoteRecordEvent{rec: rec}
		ev.SetEventNow()
		return a.post(ctx, ev)
	})
	if ctx.Err() != nil {
		return
	}
	ev := &relayClosedEvent{err: err}
	ev.SetEventNow()
	_ = a.tui.PostEvent(ev)
}

// post queues ev, waiting while the event queue is full.
func (a *App) post(ctx context.Context, ev tcell.Event) error {
	for {
		err := a.tui.PostEvent(ev)
		if !errors.Is(err, tcell.ErrEventQFull) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(postRetry):
		}
	}
}

// HandleEvent processes one event. It returns false when the app should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tui.Sync()
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *remoteRecordEvent:
		if err := a.group.ApplyRemote(ev.rec); err != nil {
			logger.Warnf("App: remote record from %v rejected: %v", ev.rec.Editor, err)
			a.statusBar.SetTemporaryMessage("Remote edit rejected: %v", err)
		}
	case *relayClosedEvent:
		a.group.SetPublisher(nil)
		a.statusBar.SetRelayInfo("relay offline", true)
		if ev.err != nil {
			a.statusBar.SetTemporaryMessage("Relay disconnected: %v", ev.err)
		} else {
			a.statusBar.SetTemporaryMessage("Relay disconnected")
		}
	}
	return true
}

// handleKey maps a key to an action and runs it on the focused editor.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	action := a.input.ProcessEvent(ev)
	ed := a.Focused()

	var err error
	switch action.Action {
	case input.ActionQuit:
		return false
	case input.ActionNextPane:
		a.focus = (a.focus + 1) % len(a.panes)
	case input.ActionMoveLeft:
		ed.MoveLeft(action.Extend)
	case input.ActionMoveRight:
		ed.MoveRight(action.Extend)
	case input.ActionMoveHome:
		ed.Home(action.Extend)
	case input.ActionMoveEnd:
		ed.End(action.Extend)
	case input.ActionSelectAll:
		ed.SelectAll()
	case input.ActionInsertRune:
		err = ed.Insert(string(action.Rune))
	case input.ActionInsertNewLine:
		err = ed.InsertNewLine()
	case input.ActionDeleteCharBackward:
		err = ed.DeleteBackward()
	case input.ActionDeleteCharForward:
		err = ed.DeleteForward()
	case input.ActionUndo:
		a.undoRedo("undo", ed.Undo)
	case input.ActionRedo:
		a.undoRedo("redo", ed.Redo)
	case input.ActionClearHistory:
		ed.ClearHistory()
		a.statusBar.SetTemporaryMessage("History cleared")
	case input.ActionCopy:
		a.copy()
	case input.ActionPaste:
		err = a.paste()
	case input.ActionUnknown:
		logger.DebugTagf("input", "App: unbound key %s", ev.Name())
	}

	if err != nil {
		logger.Warnf("App: %s failed: %v", action.Action, err)
		a.statusBar.SetTemporaryMessage("Error: %v", err)
	}
	return true
}

func (a *App) undoRedo(name string, op func() (bool, error)) {
	ok, err := op()
	switch {
	case err != nil:
		logger.Warnf("App: %s failed: %v", name, err)
		a.statusBar.SetTemporaryMessage("Cannot %s: %v", name, err)
	case !ok:
		a.statusBar.SetTemporaryMessage("Nothing to %s", name)
	}
}

// copy puts the selection on the clipboard, or the whole text when nothing
// is selected.
func (a *App) copy() {
	ed := a.Focused()
	s := ed.SelectedText()
	if s == "" {
		s = ed.Text()
	}
	a.clipboard.Write(s)
	a.statusBar.SetTemporaryMessage("Copied %d bytes", len(s))
}

func (a *App) paste() error {
	s, err := a.clipboard.Read()
	if errors.Is(err, clipboard.ErrEmpty) {
		a.statusBar.SetTemporaryMessage("Clipboard is empty")
		return nil
	}
	if err != nil {
		return err
	}
	return a.Focused().Insert(s)
}
