package causallog

import (
	"encoding/json"
	"strings"

	"github.com/oriole-systems/causallog/entry"
)

// String renders the log as a human-readable, multi-line, newest-first
// dump: entries are emitted in reverse of Items() order, each line
// prefixed by an indent proportional to the entry's depth in its
// ancestry (its shortest distance, following Next edges, from one of
// the log's heads, not its position in Items()). Depth 0 (a head) has
// no indent; each deeper level contributes two spaces, with the
// deepest rendered level marked by "└─".
func (l Log) String() string {
	depth := ancestryDepth(l.entries, l.heads)

	var b strings.Builder

	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		b.WriteString(indentFor(depth[e.Hash()]))
		b.Write(e.Payload())
		if i > 0 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// ancestryDepth computes, for every entry in entries, its shortest
// distance from the nearest head in heads, following Next edges
// forward from each head into its predecessors. Entries unreachable
// from any head (a dangling fragment) default to depth 0.
func ancestryDepth(entries []entry.Entry, heads []entry.Hash) map[entry.Hash]int {
	byHash := make(map[entry.Hash]entry.Entry, len(entries))
	for _, e := range entries {
		byHash[e.Hash()] = e
	}

	depth := make(map[entry.Hash]int, len(entries))
	queue := make([]entry.Hash, 0, len(heads))
	for _, h := range heads {
		if _, ok := byHash[h]; !ok {
			continue
		}
		depth[h] = 0
		queue = append(queue, h)
	}

	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]

		e, ok := byHash[h]
		if !ok {
			continue
		}

		next := depth[h] + 1
		for _, p := range e.Next() {
			if cur, seen := depth[p]; !seen || next < cur {
				depth[p] = next
				queue = append(queue, p)
			}
		}
	}

	return depth
}

func indentFor(depth int) string {
	if depth == 0 {
		return ""
	}
	return strings.Repeat("  ", depth-1) + "└─"
}

// logJSON is the canonical metadata block shape written to, and read
// from, a block store: {"heads": [...]}. The payload tree itself is
// reachable only by walking the store starting at those heads.
type logJSON struct {
	Heads []string `json:"heads"`
}

// ToJSON returns the canonical JSON metadata form of the log.
func (l Log) ToJSON() ([]byte, error) {
	heads := l.heads
	if heads == nil {
		heads = []string{}
	}
	return json.Marshal(logJSON{Heads: heads})
}
