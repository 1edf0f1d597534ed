package itemseq

// Tree shape constants, mirroring the ranges the text rope uses for its own
// leaves and internal nodes, scaled down: items are small value structs, not
// byte runs, so a wider leaf costs little and keeps the tree shallow for the
// branch sizes this module ever sees (bounded by roughly Depth+20 events).
const (
	maxLeafItems  = 32
	maxChildNodes = 8
)

// node is a leaf (children == nil) or an internal node (items == nil).
type node[T any] struct {
	height   uint8
	count    int
	items    []T
	children []*node[T]
}

// Seq is a persistent, ordered sequence of T. The zero value is an empty
// sequence and is safe to use.
type Seq[T any] struct {
	root *node[T]
}

func (n *node[T]) isLeaf() bool {
	return n.children == nil
}

func leaf[T any](items []T) *node[T] {
	return &node[T]{items: items, count: len(items)}
}

func internal[T any](children []*node[T]) *node[T] {
	if len(children) == 1 {
		return children[0]
	}
	count := 0
	for _, c := range children {
		count += c.count
	}
	return &node[T]{height: children[0].height + 1, count: count, children: children}
}

// Empty returns the empty sequence.
func Empty[T any]() Seq[T] {
	return Seq[T]{}
}

// FromSlice builds a sequence from items, sharing nothing with the input
// after construction completes (the caller's slice is only read).
func FromSlice[T any](items []T) Seq[T] {
	if len(items) == 0 {
		return Empty[T]()
	}
	var leaves []*node[T]
	for i := 0; i < len(items); i += maxLeafItems {
		end := i + maxLeafItems
		if end > len(items) {
			end = len(items)
		}
		chunk := make([]T, end-i)
		copy(chunk, items[i:end])
		leaves = append(leaves, leaf(chunk))
	}
	return Seq[T]{root: buildLevel(leaves)}
}

func buildLevel[T any](nodes []*node[T]) *node[T] {
	if len(nodes) == 1 {
		return nodes[0]
	}
	var parents []*node[T]
	for i := 0; i < len(nodes); i += maxChildNodes {
		end := i + maxChildNodes
		if end > len(nodes) {
			end = len(nodes)
		}
		parents = append(parents, internal(nodes[i:end]))
	}
	return buildLevel(parents)
}

// Len returns the number of elements in the sequence.
func (s Seq[T]) Len() int {
	if s.root == nil {
		return 0
	}
	return s.root.count
}

// Get returns the element at index i. Panics if i is out of range.
func (s Seq[T]) Get(i int) T {
	if i < 0 || i >= s.Len() {
		panic("itemseq: index out of range")
	}
	n := s.root
	for !n.isLeaf() {
		for _, c := range n.children {
			if i < c.count {
				n = c
				break
			}
			i -= c.count
		}
	}
	return n.items[i]
}

// Append returns a new sequence with items added at the end.
func (s Seq[T]) Append(items ...T) Seq[T] {
	if len(items) == 0 {
		return s
	}
	other := FromSlice(items)
	return s.Concat(other)
}

// Concat returns a new sequence consisting of s followed by other.
func (s Seq[T]) Concat(other Seq[T]) Seq[T] {
	if s.root == nil {
		return other
	}
	if other.root == nil {
		return s
	}
	return Seq[T]{root: concat(s.root, other.root)}
}

func concat[T any](left, right *node[T]) *node[T] {
	if left.isLeaf() && right.isLeaf() {
		if left.count+right.count <= maxLeafItems {
			items := make([]T, 0, left.count+right.count)
			items = append(items, left.items...)
			items = append(items, right.items...)
			return leaf(items)
		}
		return internal([]*node[T]{left, right})
	}
	for left.height < right.height {
		left = &node[T]{height: left.height + 1, count: left.count, children: []*node[T]{left}}
	}
	for right.height < left.height {
		right = &node[T]{height: right.height + 1, count: right.count, children: []*node[T]{right}}
	}
	if left.isLeaf() {
		// Same height, both leaves handled above; this path means height
		// 0 on both sides but the size guard above already took it.
		return internal([]*node[T]{left, right})
	}
	children := make([]*node[T], 0, len(left.children)+len(right.children))
	children = append(children, left.children...)
	children = append(children, right.children...)
	if len(children) <= maxChildNodes {
		return internal(children)
	}
	return buildLevel(chunkNodes(children))
}

func chunkNodes[T any](nodes []*node[T]) []*node[T] {
	var out []*node[T]
	for i := 0; i < len(nodes); i += maxChildNodes {
		end := i + maxChildNodes
		if end > len(nodes) {
			end = len(nodes)
		}
		out = append(out, internal(nodes[i:end]))
	}
	return out
}

// Slice returns the sub-sequence [from, to). Clamped to valid bounds.
func (s Seq[T]) Slice(from, to int) Seq[T] {
	n := s.Len()
	if from < 0 {
		from = 0
	}
	if to > n {
		to = n
	}
	if from >= to {
		return Empty[T]()
	}
	_, right := split(s.root, from)
	left, _ := split(right, to-from)
	return Seq[T]{root: left}
}

// split divides n at index i into [0,i) and [i,end). Either half may be nil
// if empty.
func split[T any](n *node[T], i int) (*node[T], *node[T]) {
	if i <= 0 {
		return nil, n
	}
	if i >= n.count {
		return n, nil
	}
	if n.isLeaf() {
		left := make([]T, i)
		copy(left, n.items[:i])
		right := make([]T, n.count-i)
		copy(right, n.items[i:])
		return nonEmptyLeaf(left), nonEmptyLeaf(right)
	}
	var leftChildren, rightChildren []*node[T]
	offset := 0
	for _, c := range n.children {
		switch {
		case offset+c.count <= i:
			leftChildren = append(leftChildren, c)
		case offset >= i:
			rightChildren = append(rightChildren, c)
		default:
			l, r := split(c, i-offset)
			if l != nil {
				leftChildren = append(leftChildren, l)
			}
			if r != nil {
				rightChildren = append(rightChildren, r)
			}
		}
		offset += c.count
	}
	return buildFromChildren(leftChildren), buildFromChildren(rightChildren)
}

func nonEmptyLeaf[T any](items []T) *node[T] {
	if len(items) == 0 {
		return nil
	}
	return leaf(items)
}

func buildFromChildren[T any](children []*node[T]) *node[T] {
	if len(children) == 0 {
		return nil
	}
	return buildLevel(chunkNodes(children))
}

// ForEach walks items in [from, to) calling cb(item, index) for each.
// If from <= to, the walk is forward; if from > to, it runs backward over
// the same half-open interval read in reverse (i.e. indices to..from-1,
// descending). cb returning false stops the walk early.
func (s Seq[T]) ForEach(from, to int, cb func(item T, index int) bool) {
	if from <= to {
		for i := from; i < to; i++ {
			if !cb(s.Get(i), i) {
				return
			}
		}
		return
	}
	for i := from - 1; i >= to; i-- {
		if !cb(s.Get(i), i) {
			return
		}
	}
}

// ToSlice materializes the sequence. Intended for tests and small debug
// dumps, not hot paths.
func (s Seq[T]) ToSlice() []T {
	out := make([]T, 0, s.Len())
	s.ForEach(0, s.Len(), func(item T, _ int) bool {
		out = append(out, item)
		return true
	})
	return out
}
