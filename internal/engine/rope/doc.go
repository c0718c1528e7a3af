// Package rope provides an immutable rope for storing the editor document.
//
// A rope is a balanced tree whose leaves hold bounded text chunks and whose
// internal nodes cache aggregated metrics (bytes, characters, newlines). The
// tree is a B+ tree variant: leaves carry up to MaxChunksPerLeaf chunks and
// internal nodes up to MaxChildren children.
//
// Positions are expressed in characters (Unicode code points), not bytes:
//
//	r := rope.FromString("héllo")
//	r = r.Insert(5, "!")          // "héllo!"
//	r.LineToChar(0)               // 0
//	r.Len()                       // 6
//
// Every edit returns a new Rope and leaves the receiver untouched. Unchanged
// subtrees are shared between versions, so holding on to an old Rope is a
// cheap snapshot and concurrent readers never observe a later edit.
package rope
