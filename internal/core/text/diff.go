package text

import (
	"strings"

	"github.com/rivo/uniseg"
)

// DefaultMaxDiffTokens bounds the number of grapheme clusters fed to Myers
// once the common prefix and suffix are trimmed. Larger middles are reported
// as one removal followed by one insertion.
const DefaultMaxDiffTokens = 4000

// DefaultMaxDiffMemoryMB bounds the memory Myers may spend on its trace. A
// diff that would need more is reported as one removal and one insertion.
const DefaultMaxDiffMemoryMB = 32

// Diff returns the ordered change sequence turning oldText into newText.
// Comparison runs on grapheme clusters, so no change ever splits a
// user-perceived character. Identical inputs yield a nil sequence.
func Diff(oldText, newText string) []Change {
	return diffTokens(oldText, newText, DefaultMaxDiffTokens, DefaultMaxDiffMemoryMB)
}

// diffTokens diffs with explicit limits; a limit <= 0 disables it.
func diffTokens(oldText, newText string, maxTokens, maxMemoryMB int) []Change {
	if oldText == newText {
		return nil
	}

	a := graphemes(oldText)
	b := graphemes(newText)

	// Trim the common prefix and suffix; typing touches only the middle.
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	offset := byteLen(a[:prefix])
	midA := a[prefix : len(a)-suffix]
	midB := b[prefix : len(b)-suffix]

	if maxTokens > 0 && len(midA)+len(midB) > maxTokens {
		return replaceRun(offset, strings.Join(midA, ""), strings.Join(midB, ""))
	}

	ops, ok := myers(midA, midB, int64(maxMemoryMB)<<20)
	if !ok {
		return replaceRun(offset, strings.Join(midA, ""), strings.Join(midB, ""))
	}
	return groupRuns(offset, ops)
}

// graphemes splits s into grapheme clusters.
func graphemes(s string) []string {
	if s == "" {
		return nil
	}
	tokens := make([]string, 0, len(s))
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		tokens = append(tokens, gr.Str())
	}
	return tokens
}

func byteLen(tokens []string) int {
	n := 0
	for _, t := range tokens {
		n += len(t)
	}
	return n
}

func replaceRun(pos int, removed, added string) []Change {
	var changes []Change
	if removed != "" {
		changes = append(changes, Change{Position: pos, Kind: Removed, Text: removed})
	}
	if added != "" {
		changes = append(changes, Change{Position: pos, Kind: Added, Text: added})
	}
	return changes
}

type opKind uint8

const (
	opEqual opKind = iota
	opInsert
	opDelete
)

type editOp struct {
	kind opKind
	text string
}

// groupRuns folds the token script into change records. Everything between
// two equal tokens is one run: its removal comes first, then its insertion,
// both at the run's offset in the snapshot being rebuilt.
func groupRuns(pos int, script []editOp) []Change {
	var (
		changes []Change
		removed strings.Builder
		added   strings.Builder
	)
	flush := func() {
		if removed.Len() == 0 && added.Len() == 0 {
			return
		}
		changes = append(changes, replaceRun(pos, removed.String(), added.String())...)
		pos += added.Len()
		removed.Reset()
		added.Reset()
	}

	for _, op := range script {
		switch op.kind {
		case opEqual:
			flush()
			pos += len(op.text)
		case opDelete:
			removed.WriteString(op.text)
		case opInsert:
			added.WriteString(op.text)
		}
	}
	flush()
	return changes
}

// myers computes the shortest edit script between token slices a and b.
// The trace keeps one copy of v per edit step, so it grows with the edit
// distance; ok is false when it would exceed maxBytes (<= 0 means no limit).
func myers(a, b []string, maxBytes int64) (script []editOp, ok bool) {
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil, true
	}
	if n == 0 {
		ops := make([]editOp, m)
		for i, t := range b {
			ops[i] = editOp{kind: opInsert, text: t}
		}
		return ops, true
	}
	if m == 0 {
		ops := make([]editOp, n)
		for i, t := range a {
			ops[i] = editOp{kind: opDelete, text: t}
		}
		return ops, true
	}

	maxD := n + m
	offset := maxD
	v := make([]int, 2*maxD+2)
	var trace [][]int
	stepBytes := int64(len(v)) * 8

	for d := 0; d <= maxD; d++ {
		if maxBytes > 0 && int64(d+1)*stepBytes > maxBytes {
			return nil, false
		}
		// trace[d] holds the furthest reaching paths after d-1 edits.
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x

			if x >= n && y >= m {
				return backtrack(trace, a, b, offset, d), true
			}
		}
	}
	return nil, true
}

func backtrack(trace [][]int, a, b []string, offset, depth int) []editOp {
	x, y := len(a), len(b)
	var ops []editOp

	for d := depth; d > 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			ops = append(ops, editOp{kind: opEqual, text: a[x-1]})
			x--
			y--
		}
		if x == prevX {
			ops = append(ops, editOp{kind: opInsert, text: b[y-1]})
			y--
		} else {
			ops = append(ops, editOp{kind: opDelete, text: a[x-1]})
			x--
		}
	}
	for x > 0 && y > 0 {
		ops = append(ops, editOp{kind: opEqual, text: a[x-1]})
		x--
		y--
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}
