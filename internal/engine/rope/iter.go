package rope

// ChunkIterator walks the chunks of a rope in order.
type ChunkIterator struct {
	stack   []iterFrame
	chunk   Chunk
	started bool
	root    *Node
}

type iterFrame struct {
	node *Node
	next int
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	return &ChunkIterator{root: r.root}
}

// Next advances to the next non-empty chunk.
func (it *ChunkIterator) Next() bool {
	if !it.started {
		it.started = true
		if it.root == nil {
			return false
		}
		it.stack = append(it.stack, iterFrame{node: it.root})
	}

	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.node.IsLeaf() {
			if top.next < len(top.node.chunks) {
				it.chunk = top.node.chunks[top.next]
				top.next++
				if it.chunk.IsEmpty() {
					continue
				}
				return true
			}
		} else if top.next < len(top.node.children) {
			child := top.node.children[top.next]
			top.next++
			it.stack = append(it.stack, iterFrame{node: child})
			continue
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}
