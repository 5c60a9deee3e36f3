// internal/types/position.go
package types

// Position is a line/column location inside a snapshot.
// Line is the 0-based line index.
// Col is the 0-based byte column within the line, which is what tree-sitter expects.
type Position struct {
	Line int
	Col  int
}
