// internal/event/event.go
package event

import "github.com/bethropolis/mirror/internal/types"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Document events
	TypeBufferModified   // Snapshot text changed (local edit, undo/redo or external edit)
	TypeBufferLoaded     // Fresh content loaded, history reset
	TypeSelectionChanged // Caret or selection moved without a text change

	// History events
	TypeActionCreate   // A local or restore-caused edit record was created
	TypeHistoryCleared // Undo and redo histories were emptied
)

func (t Type) String() string {
	switch t {
	case TypeBufferModified:
		return "BufferModified"
	case TypeBufferLoaded:
		return "BufferLoaded"
	case TypeSelectionChanged:
		return "SelectionChanged"
	case TypeActionCreate:
		return "actionCreate"
	case TypeHistoryCleared:
		return "HistoryCleared"
	default:
		return "Unknown"
	}
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// BufferModifiedData lists one EditInfo per applied change, in order, so an
// incremental parser can follow along.
type BufferModifiedData struct {
	Edits []types.EditInfo
}

// BufferLoadedData carries the size of the freshly loaded snapshot.
type BufferLoadedData struct {
	Size int
}

// SelectionChangedData contains the new selection.
type SelectionChangedData struct {
	Selection types.Selection
}

// HistoryClearedData is empty for now.
type HistoryClearedData struct{}
