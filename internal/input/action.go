// internal/input/action.go
package input

// Action represents a command or operation to be performed by the editor.
type Action int

// Define the set of possible editor actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionNextPane

	// --- Cursor Movement ---
	ActionMoveLeft
	ActionMoveRight
	ActionMoveHome // Beginning of line
	ActionMoveEnd  // End of line
	ActionSelectAll

	// --- Text Manipulation ---
	ActionInsertRune         // Requires Rune argument
	ActionInsertNewLine      // Specific action for Enter
	ActionDeleteCharForward  // Delete key
	ActionDeleteCharBackward // Backspace key

	// --- History ---
	ActionUndo
	ActionRedo
	ActionClearHistory

	// --- Clipboard ---
	ActionCopy
	ActionPaste
)

var actionNames = map[Action]string{
	ActionQuit:               "quit",
	ActionNextPane:           "next-pane",
	ActionMoveLeft:           "move-left",
	ActionMoveRight:          "move-right",
	ActionMoveHome:           "move-home",
	ActionMoveEnd:            "move-end",
	ActionSelectAll:          "select-all",
	ActionInsertRune:         "insert-rune",
	ActionInsertNewLine:      "insert-newline",
	ActionDeleteCharForward:  "delete-forward",
	ActionDeleteCharBackward: "delete-backward",
	ActionUndo:               "undo",
	ActionRedo:               "redo",
	ActionClearHistory:       "clear-history",
	ActionCopy:               "copy",
	ActionPaste:              "paste",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionEvent represents a decoded input event resulting in an action.
// It might carry payload data needed for the action (like the rune to insert).
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
	Extend bool // Shift held: movement extends the selection
}
