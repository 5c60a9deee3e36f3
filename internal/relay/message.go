package relay

import (
	"fmt"

	"github.com/bethropolis/mirror/internal/core/history"
	"github.com/bethropolis/mirror/internal/core/text"
	"github.com/bethropolis/mirror/internal/types"
)

// TypeAction is the only message type the hub forwards.
const TypeAction = "action"

// Message is the JSON envelope exchanged with the hub.
type Message struct {
	Type   string      `json:"type"`
	Doc    string      `json:"doc"`
	Kind   string      `json:"kind,omitempty"`
	Record *WireRecord `json:"record,omitempty"`
}

// WireRecord is a history.Record with the editor identity flattened to its
// string form.
type WireRecord struct {
	Editor          string          `json:"editor"`
	SelectionBefore types.Selection `json:"selectionBefore"`
	SelectionAfter  types.Selection `json:"selectionAfter"`
	Changes         []text.Change   `json:"changes"`
}

func actionMessage(doc string, data history.ActionCreateData) Message {
	editor := ""
	if data.Record.Editor != nil {
		editor = data.Record.Editor.String()
	}
	return Message{
		Type: TypeAction,
		Doc:  doc,
		Kind: data.Kind.String(),
		Record: &WireRecord{
			Editor:          editor,
			SelectionBefore: data.Record.SelectionBefore,
			SelectionAfter:  data.Record.SelectionAfter,
			Changes:         data.Record.Changes,
		},
	}
}

// record rebuilds the history.Record carried by an action message.
func (m Message) record() (history.Record, error) {
	if m.Record == nil {
		return history.Record{}, fmt.Errorf("%s message without record", m.Type)
	}
	id, err := history.ParseEditorID(m.Record.Editor)
	if err != nil {
		return history.Record{}, err
	}
	return history.NewRecord(id, m.Record.SelectionBefore, m.Record.SelectionAfter, m.Record.Changes)
}
