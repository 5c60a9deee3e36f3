// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to editor actions.
type Keymap map[tcell.Key]Action

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap Keymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{keymap: make(Keymap)}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyEnter] = ActionInsertNewLine
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward // Often used for Backspace
	p.keymap[tcell.KeyDelete] = ActionDeleteCharForward
	p.keymap[tcell.KeyTab] = ActionNextPane
	p.keymap[tcell.KeyEscape] = ActionQuit

	// Ctrl bindings; tcell reports these as their own key codes.
	p.keymap[tcell.KeyCtrlQ] = ActionQuit
	p.keymap[tcell.KeyCtrlC] = ActionQuit
	p.keymap[tcell.KeyCtrlZ] = ActionUndo
	p.keymap[tcell.KeyCtrlY] = ActionRedo
	p.keymap[tcell.KeyCtrlL] = ActionClearHistory
	p.keymap[tcell.KeyCtrlK] = ActionCopy
	p.keymap[tcell.KeyCtrlV] = ActionPaste
	p.keymap[tcell.KeyCtrlA] = ActionSelectAll
}

// Bind overrides or adds a key binding.
func (p *InputProcessor) Bind(key tcell.Key, action Action) {
	p.keymap[key] = action
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	if key == tcell.KeyRune {
		// Only insert plain runes (no Ctrl+rune or Alt+rune)
		if mod&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
			return ActionEvent{Action: ActionUnknown}
		}
		return ActionEvent{Action: ActionInsertRune, Rune: ev.Rune()}
	}

	if action, ok := p.keymap[key]; ok {
		return ActionEvent{Action: action, Extend: mod&tcell.ModShift != 0}
	}
	return ActionEvent{Action: ActionUnknown}
}
