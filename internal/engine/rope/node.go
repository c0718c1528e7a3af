package rope

import "strings"

// Tree shape constants.
const (
	// MaxChildren is the maximum children per internal node.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node is a node in the rope tree. Leaves (height 0) hold chunks; internal
// nodes hold children. Nodes are never modified once reachable from a Rope.
type Node struct {
	height  uint8
	summary TextSummary

	children       []*Node
	childSummaries []TextSummary

	chunks []Chunk
}

func newLeafNode() *Node {
	return &Node{}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	summaries := make([]TextSummary, len(children))
	var total TextSummary
	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &Node{
		height:         children[0].height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Chars returns the number of characters in this subtree.
func (n *Node) Chars() CharOffset {
	return n.summary.Chars
}

func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, c := range n.chunks {
			sb.WriteString(c.data)
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends the characters in [start, end) to sb.
func (n *Node) appendRange(sb *strings.Builder, start, end CharOffset) {
	if start >= end {
		return
	}

	var offset CharOffset
	if n.IsLeaf() {
		for _, c := range n.chunks {
			chunkEnd := offset + c.summary.Chars
			if chunkEnd > start && offset < end {
				from := CharOffset(0)
				if start > offset {
					from = start - offset
				}
				sb.WriteString(c.slice(from, end-offset))
			}
			offset = chunkEnd
		}
		return
	}

	for i, child := range n.children {
		childEnd := offset + n.childSummaries[i].Chars
		if childEnd > start && offset < end {
			from := CharOffset(0)
			if start > offset {
				from = start - offset
			}
			child.appendRange(sb, from, min(end, childEnd)-offset)
		}
		offset = childEnd
	}
}

// split splits the node at a character offset.
func (n *Node) split(offset CharOffset) (*Node, *Node) {
	if offset == 0 {
		return newLeafNode(), n
	}
	if offset >= n.Chars() {
		return n, newLeafNode()
	}
	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

func (n *Node) splitLeaf(offset CharOffset) (*Node, *Node) {
	var left, right []Chunk
	var pos CharOffset

	for _, c := range n.chunks {
		switch end := pos + c.summary.Chars; {
		case end <= offset:
			left = append(left, c)
		case pos >= offset:
			right = append(right, c)
		default:
			l, r := c.Split(offset - pos)
			if !l.IsEmpty() {
				left = append(left, l)
			}
			if !r.IsEmpty() {
				right = append(right, r)
			}
		}
		pos += c.summary.Chars
	}

	return newLeafNodeWithChunks(left), newLeafNodeWithChunks(right)
}

func (n *Node) splitInternal(offset CharOffset) (*Node, *Node) {
	var left, right []*Node
	var pos CharOffset

	for i, child := range n.children {
		chars := n.childSummaries[i].Chars
		switch {
		case pos+chars <= offset:
			left = append(left, child)
		case pos >= offset:
			right = append(right, child)
		default:
			l, r := child.split(offset - pos)
			if l.Chars() > 0 {
				left = append(left, l)
			}
			if r.Chars() > 0 {
				right = append(right, r)
			}
		}
		pos += chars
	}

	return buildNodeFromChildren(left), buildNodeFromChildren(right)
}

// buildNodeFromChildren creates a balanced tree over a list of nodes.
// Children may differ in height; shorter ones are lifted first.
func buildNodeFromChildren(children []*Node) *Node {
	switch len(children) {
	case 0:
		return newLeafNode()
	case 1:
		return children[0]
	}

	var height uint8
	for _, c := range children {
		height = max(height, c.height)
	}
	lifted := make([]*Node, len(children))
	for i, c := range children {
		for c.height < height {
			c = newInternalNode([]*Node{c})
		}
		lifted[i] = c
	}

	if len(lifted) <= MaxChildren {
		return newInternalNode(lifted)
	}

	var parents []*Node
	for i := 0; i < len(lifted); i += MaxChildren {
		end := min(i+MaxChildren, len(lifted))
		parents = append(parents, newInternalNode(lifted[i:end]))
	}
	return buildNodeFromChildren(parents)
}

// concat joins two nodes.
func concat(left, right *Node) *Node {
	if left == nil || left.Chars() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Chars() == 0 {
		return left
	}

	for left.height < right.height {
		left = newInternalNode([]*Node{left})
	}
	for right.height < left.height {
		right = newInternalNode([]*Node{right})
	}
	return mergeNodes(left, right)
}

func mergeNodes(left, right *Node) *Node {
	if left.IsLeaf() {
		if len(left.chunks)+len(right.chunks) <= MaxChunksPerLeaf {
			chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
			chunks = append(chunks, left.chunks...)
			chunks = append(chunks, right.chunks...)
			return newLeafNodeWithChunks(chunks)
		}
		return newInternalNode([]*Node{left, right})
	}

	all := make([]*Node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)
	return buildNodeFromChildren(all)
}

// charAfterNewline returns the character offset just past the n-th newline
// (1-indexed) of the subtree. The caller guarantees the newline exists.
func (n *Node) charAfterNewline(line uint32) CharOffset {
	var base CharOffset
	node := n
	for !node.IsLeaf() {
		descended := false
		for i, s := range node.childSummaries {
			if s.Lines >= line {
				node = node.children[i]
				descended = true
				break
			}
			line -= s.Lines
			base += s.Chars
		}
		if !descended {
			return base
		}
	}

	for _, c := range node.chunks {
		if c.summary.Lines >= line {
			return base + CharOffset(charIndexAfterNewline(c.data, line))
		}
		line -= c.summary.Lines
		base += c.summary.Chars
	}
	return base
}
