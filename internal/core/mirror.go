package core

import (
	"errors"
	"fmt"

	"github.com/bethropolis/mirror/internal/core/history"
	"github.com/bethropolis/mirror/internal/event"
	"github.com/bethropolis/mirror/internal/logger"
)

// Publisher carries records to editors outside the process. *relay.Client
// satisfies it.
type Publisher interface {
	Publish(data history.ActionCreateData) error
}

type member struct {
	editor *Editor
	sub    event.SubscriptionID
}

// Group keeps several editors on one document in step. Every record an
// editor announces, whether from typing or from undo/redo, is applied to the
// other members as an external edit and handed to the publisher.
//
// A Group is not safe for concurrent use; records arriving from the network
// must be handed to ApplyRemote on the goroutine that drives the editors.
type Group struct {
	members   []*member
	publisher Publisher
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{}
}

// SetPublisher sets where local records are sent. nil disables publishing.
func (g *Group) SetPublisher(p Publisher) {
	g.publisher = p
}

// Editors returns the members in join order.
func (g *Group) Editors() []*Editor {
	eds := make([]*Editor, len(g.members))
	for i, m := range g.members {
		eds[i] = m.editor
	}
	return eds
}

// Join adds ed to the group. A joining editor takes over the content of the
// existing members, which resets its history.
func (g *Group) Join(ed *Editor) {
	if g.find(ed) >= 0 {
		return
	}
	if len(g.members) > 0 {
		ed.SetContent(g.members[0].editor.Text())
	}

	m := &member{editor: ed}
	m.sub = ed.Events().Subscribe(event.TypeActionCreate, func(e event.Event) bool {
		data, ok := e.Data.(history.ActionCreateData)
		if !ok {
			logger.Warnf("Group: unexpected %v payload %T", e.Type, e.Data)
			return false
		}
		g.forward(ed, data)
		return false
	})
	g.members = append(g.members, m)
	logger.DebugTagf("core", "Group: editor %s joined (%d members)", ed.ID(), len(g.members))
}

// Leave removes ed from the group. Its text and history stay as they are.
func (g *Group) Leave(ed *Editor) {
	i := g.find(ed)
	if i < 0 {
		return
	}
	ed.Events().Unsubscribe(g.members[i].sub)
	g.members = append(g.members[:i], g.members[i+1:]...)
	logger.DebugTagf("core", "Group: editor %s left (%d members)", ed.ID(), len(g.members))
}

// ApplyRemote applies a record received from another process to every member.
func (g *Group) ApplyRemote(rec history.Record) error {
	var errs []error
	for _, m := range g.members {
		if err := m.editor.ApplyExternal(rec); err != nil {
			errs = append(errs, fmt.Errorf("editor %s: %w", m.editor.ID(), err))
		}
	}
	return errors.Join(errs...)
}

func (g *Group) forward(src *Editor, data history.ActionCreateData) {
	for _, m := range g.members {
		if m.editor == src {
			continue
		}
		// Failures are logged by ApplyExternal; the other members still get the record.
		_ = m.editor.ApplyExternal(data.Record)
	}

	if g.publisher == nil {
		return
	}
	if err := g.publisher.Publish(data); err != nil {
		logger.Warnf("Group: failed to publish %s record: %v", data.Kind, err)
	}
}

func (g *Group) find(ed *Editor) int {
	for i, m := range g.members {
		if m.editor == ed {
			return i
		}
	}
	return -1
}
