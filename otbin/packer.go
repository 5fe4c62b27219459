package otbin

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Node is a sub-table under construction. Payload bytes are appended through the
// embedded Writer; offset fields are appended as placeholders, which the Packer fills
// in after every node has been placed.
type Node struct {
	Writer
	Name  string
	links []nodeLink
}

type nodeLink struct {
	pos    int // position of the offset field within the payload
	width  int // 16, 24 or 32
	target *Node
	delta  int // offset into the target
}

// NewNode creates an empty node. name is used for error messages only.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// NodeFrom creates a node with payload b, which must not be modified afterwards.
func NodeFrom(name string, b []byte) *Node {
	return &Node{Name: name, Writer: Writer{buf: b}}
}

// Offset16 appends a 16-bit offset field pointing to target. A nil target
// appends an absent (zero) offset.
func (n *Node) Offset16(target *Node) {
	n.OffsetAt(n.Len(), 16, target, 0)
}

// Offset24 appends a 24-bit offset field pointing to target.
func (n *Node) Offset24(target *Node) {
	n.OffsetAt(n.Len(), 24, target, 0)
}

// Offset32 appends a 32-bit offset field pointing to target.
func (n *Node) Offset32(target *Node) {
	n.OffsetAt(n.Len(), 32, target, 0)
}

// Offset16Into appends a 16-bit offset field pointing delta bytes into target.
func (n *Node) Offset16Into(target *Node, delta int) {
	n.OffsetAt(n.Len(), 16, target, delta)
}

// Offset32Into appends a 32-bit offset field pointing delta bytes into target.
func (n *Node) Offset32Into(target *Node, delta int) {
	n.OffsetAt(n.Len(), 32, target, delta)
}

// OffsetAt records an offset field of the given width at position pos of the
// payload. If pos is at the end of the payload, a zero placeholder is appended.
// A nil target leaves the field zero (absent).
func (n *Node) OffsetAt(pos, width int, target *Node, delta int) {
	if pos == n.Len() {
		n.Zeros(width / 8)
	}
	if target == nil {
		return
	}
	n.links = append(n.links, nodeLink{pos: pos, width: width, target: target, delta: delta})
}

// Packer serializes a graph of nodes in two phases: first, every node is placed,
// starting at the root and continuing breadth-first, such that each node follows
// all nodes linking to it (OpenType offsets are unsigned); second, offset fields
// are patched relative to the start of the node containing them.
//
// If Share is set, structurally identical sub-graphs are emitted only once. Only
// tables whose format permits shared sub-tables should enable sharing.
type Packer struct {
	Share bool
}

// Pack serializes the graph rooted at root. If an offset does not fit its field,
// an error wrapping ErrOffsetOverflow is returned. If a node cannot be placed, e.g.
// because of a cycle, or a link points outside of its target, an error wrapping
// ErrUnresolvedOffset is returned. In both cases no bytes are returned.
func (p Packer) Pack(root *Node) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("packing nil root: %w", ErrUnresolvedOffset)
	}
	nodes, err := collect(root)
	if err != nil {
		return nil, err
	}
	if p.Share {
		root = share(root, nodes)
		if nodes, err = collect(root); err != nil {
			return nil, err
		}
	}
	// Phase 1: placement in topological order, breadth-first from root.
	indeg := make(map[*Node]int, len(nodes))
	for _, n := range nodes {
		for _, l := range n.links {
			indeg[l.target]++
		}
	}
	if indeg[root] > 0 {
		return nil, fmt.Errorf("root %s is target of a link: %w", root.Name, ErrUnresolvedOffset)
	}
	placed := make(map[*Node]int, len(nodes))
	order := make([]*Node, 0, len(nodes))
	queue := []*Node{root}
	size := 0
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		placed[n] = size
		order = append(order, n)
		size += n.Len()
		for _, l := range n.links {
			if indeg[l.target]--; indeg[l.target] == 0 {
				queue = append(queue, l.target)
			}
		}
	}
	if len(order) < len(nodes) {
		for _, n := range nodes {
			if _, ok := placed[n]; !ok {
				return nil, fmt.Errorf("node %s cannot be placed after all its parents: %w",
					n.Name, ErrUnresolvedOffset)
			}
		}
	}
	// Phase 2: copy payloads and patch offsets.
	out := make([]byte, 0, size)
	for _, n := range order {
		out = append(out, n.Bytes()...)
	}
	for _, n := range order {
		start := placed[n]
		for _, l := range n.links {
			tpos, ok := placed[l.target]
			if !ok {
				return nil, fmt.Errorf("link from %s to %s: %w", n.Name, l.target.Name, ErrUnresolvedOffset)
			}
			if l.delta < 0 || l.delta > l.target.Len() {
				return nil, fmt.Errorf("link from %s points %d bytes into %s of size %d: %w",
					n.Name, l.delta, l.target.Name, l.target.Len(), ErrUnresolvedOffset)
			}
			off := tpos + l.delta - start
			if off>>l.width != 0 {
				return nil, fmt.Errorf("offset %d from %s to %s exceeds %d bits: %w",
					off, n.Name, l.target.Name, l.width, ErrOffsetOverflow)
			}
			at := out[start+l.pos:]
			switch l.width {
			case 16:
				binary.BigEndian.PutUint16(at, uint16(off))
			case 24:
				AppendUint24(at[:0], uint32(off))
			case 32:
				binary.BigEndian.PutUint32(at, uint32(off))
			}
		}
	}
	return out, nil
}

// collect returns every node reachable from root, root first.
func collect(root *Node) ([]*Node, error) {
	seen := map[*Node]bool{root: true}
	nodes := []*Node{root}
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		for _, l := range n.links {
			if l.pos < 0 || l.pos+l.width/8 > n.Len() {
				return nil, fmt.Errorf("offset field of %s at %d outside of payload: %w",
					n.Name, l.pos, ErrUnresolvedOffset)
			}
			if !seen[l.target] {
				seen[l.target] = true
				nodes = append(nodes, l.target)
			}
		}
	}
	return nodes, nil
}

// share replaces structurally identical nodes by a single representative and
// returns the (possibly new) root. Nodes are compared bottom-up: two nodes are
// identical if their payloads are equal and their links point, at the same
// positions, to identical nodes.
func share(root *Node, nodes []*Node) *Node {
	canon := make(map[*Node]*Node, len(nodes))
	byKey := make(map[string]*Node, len(nodes))
	ids := make(map[*Node]int, len(nodes))
	var visit func(n *Node, stack map[*Node]bool) *Node
	visit = func(n *Node, stack map[*Node]bool) *Node {
		if c, ok := canon[n]; ok {
			return c
		}
		if stack[n] { // cycle, leave for placement to reject
			return n
		}
		stack[n] = true
		links := make([]nodeLink, len(n.links))
		for i, l := range n.links {
			l.target = visit(l.target, stack)
			links[i] = l
		}
		delete(stack, n)
		var key strings.Builder
		key.WriteString(strconv.Itoa(n.Len()) + "#")
		key.Write(n.Bytes())
		for _, l := range links {
			key.WriteString("|" + strconv.Itoa(l.pos) + ":" + strconv.Itoa(l.width) + ":" +
				strconv.Itoa(l.delta) + ">")
			id, ok := ids[l.target]
			if !ok {
				id = -1
			}
			key.WriteString(strconv.Itoa(id))
		}
		k := key.String()
		if c, ok := byKey[k]; ok {
			canon[n] = c
			return c
		}
		c := &Node{Name: n.Name, Writer: n.Writer, links: links}
		ids[c] = len(ids)
		byKey[k] = c
		canon[n] = c
		return c
	}
	return visit(root, map[*Node]bool{})
}
