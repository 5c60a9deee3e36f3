// Package syntax keeps a tree-sitter tree in step with an editor's snapshot.
// Every BufferModified event carries one EditInfo per applied change, so the
// tree is edited and reparsed incrementally instead of rebuilt.
package syntax

import (
	"context"
	"errors"
	"fmt"

	"github.com/bethropolis/mirror/internal/event"
	"github.com/bethropolis/mirror/internal/logger"
	"github.com/bethropolis/mirror/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// ErrNoLanguage is returned by NewTracker for a nil language.
var ErrNoLanguage = errors.New("no language provided")

// Source is what a Tracker follows. *core.Editor satisfies it.
type Source interface {
	Text() string
	Events() *event.Manager
}

// Status summarises the current parse.
type Status struct {
	Language  string
	Errors    int
	FirstLine int // 1-based line of the first error, 0 when clean
}

func (s Status) String() string {
	switch {
	case s.Language == "":
		return ""
	case s.Errors == 0:
		return s.Language + ": ok"
	case s.Errors == 1:
		return fmt.Sprintf("%s: 1 syntax error (line %d)", s.Language, s.FirstLine)
	default:
		return fmt.Sprintf("%s: %d syntax errors (line %d)", s.Language, s.Errors, s.FirstLine)
	}
}

// Tracker owns a parser and the latest tree for one snapshot. Not safe for
// concurrent use; events are dispatched on the goroutine driving the editor.
type Tracker struct {
	lang   *Language
	parser *sitter.Parser
	tree   *sitter.Tree
	status Status

	src  Source
	subs []event.SubscriptionID
}

// NewTracker creates a tracker for lang with an empty tree.
func NewTracker(lang *Language) (*Tracker, error) {
	if lang == nil {
		return nil, ErrNoLanguage
	}
	p := sitter.NewParser()
	p.SetLanguage(lang.Grammar)
	return &Tracker{lang: lang, parser: p, status: Status{Language: lang.Name}}, nil
}

// Language returns the tracked language.
func (t *Tracker) Language() *Language {
	return t.lang
}

// Status returns the result of the last parse.
func (t *Tracker) Status() Status {
	return t.status
}

// Tree returns the current tree, nil before the first parse.
func (t *Tracker) Tree() *sitter.Tree {
	return t.tree
}

// Reset throws the tree away and parses content from scratch.
func (t *Tracker) Reset(ctx context.Context, content string) error {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
	return t.parse(ctx, content)
}

// Apply edits the tree with each EditInfo in order and reparses content,
// which must be the snapshot after those edits.
func (t *Tracker) Apply(ctx context.Context, content string, edits []types.EditInfo) error {
	if t.tree == nil {
		return t.parse(ctx, content)
	}
	for _, e := range edits {
		t.tree.Edit(e.InputEdit())
	}
	return t.parse(ctx, content)
}

func (t *Tracker) parse(ctx context.Context, content string) error {
	tree, err := t.parser.ParseCtx(ctx, t.tree, []byte(content))
	if err != nil {
		return fmt.Errorf("parse %s: %w", t.lang.Name, err)
	}
	if t.tree != nil {
		t.tree.Close()
	}
	t.tree = tree
	t.status = summarise(t.lang.Name, tree.RootNode())
	return nil
}

// Attach parses src's current text and follows its load and modify events
// until Detach.
func (t *Tracker) Attach(src Source) error {
	t.Detach()
	if err := t.Reset(context.Background(), src.Text()); err != nil {
		return err
	}
	t.src = src
	events := src.Events()
	t.subs = append(t.subs,
		events.Subscribe(event.TypeBufferLoaded, t.onLoaded),
		events.Subscribe(event.TypeBufferModified, t.onModified),
	)
	return nil
}

// Detach stops following the attached source.
func (t *Tracker) Detach() {
	if t.src == nil {
		return
	}
	for _, id := range t.subs {
		t.src.Events().Unsubscribe(id)
	}
	t.subs = nil
	t.src = nil
}

// Close detaches and releases the tree and parser.
func (t *Tracker) Close() {
	t.Detach()
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
	t.parser.Close()
}

func (t *Tracker) onLoaded(e event.Event) bool {
	if err := t.Reset(context.Background(), t.src.Text()); err != nil {
		logger.WarnTagf("syntax", "Reparse after load failed: %v", err)
	}
	return false
}

func (t *Tracker) onModified(e event.Event) bool {
	data, ok := e.Data.(event.BufferModifiedData)
	if !ok {
		logger.Warnf("syntax: unexpected BufferModified payload %T", e.Data)
		return false
	}
	if err := t.Apply(context.Background(), t.src.Text(), data.Edits); err != nil {
		logger.WarnTagf("syntax", "Incremental reparse failed: %v", err)
	}
	return false
}

func summarise(name string, root *sitter.Node) Status {
	st := Status{Language: name}
	if root == nil || !root.HasError() {
		return st
	}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			st.Errors++
			if st.FirstLine == 0 {
				st.FirstLine = int(n.StartPoint().Row) + 1
			}
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	if st.Errors == 0 {
		st.Errors, st.FirstLine = 1, 1
	}
	return st
}
