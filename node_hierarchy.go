package scenegraph

import (
	"slices"
)

// AddOptions controls AddAt when the child is already in the target list.
// The zero value moves the child and shifts the target index.
type AddOptions struct {
	// NoMove leaves a child that is already in the list where it is.
	NoMove bool
	// NoShift keeps the target index as given when the child moves towards
	// the end of its own list. By default the index is lowered by one so the
	// child lands before the node that occupied the target slot.
	NoShift bool
}

// keepInPlace is what Add uses for children it already holds.
var keepInPlace = AddOptions{NoMove: true}

func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

func (n *Node) ChildCount() int { return len(n.children) }

// EachChild calls fn for every child without copying the child list.
// Structural changes made by fn do not affect the running iteration.
func (n *Node) EachChild(fn func(*Node)) {
	for _, c := range n.children {
		fn(c)
	}
}

// ChildAt returns the child at index i, or nil.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// IndexOf returns the position of child in n's child list, or -1.
func (n *Node) IndexOf(child *Node) int {
	return slices.Index(n.children, child)
}

// Root returns the topmost ancestor of n, n itself when it has no parent.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// inLineage reports whether candidate is n or one of its ancestors.
func (n *Node) inLineage(candidate *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (n *Node) checkAdoptable(op string, child *Node) error {
	if child == nil {
		return reject(op, ErrNilNode, n)
	}
	if n.inLineage(child) {
		return reject(op, ErrSelfParent, n)
	}
	return nil
}

// Add appends children to n, detaching each from its previous parent.
// Children already under n stay where they are. Nothing is added when any
// argument is rejected.
func (n *Node) Add(children ...*Node) error {
	for _, c := range children {
		if err := n.checkAdoptable("add", c); err != nil {
			return err
		}
	}
	for _, c := range children {
		n.insert(-1, c, keepInPlace)
	}
	return nil
}

// AddAt inserts child at index. A negative or out of range index appends.
// A child already under n is moved unless opts.NoMove is set. Emits "added"
// or, for a child moved within n, "moved" with the final index.
func (n *Node) AddAt(index int, child *Node, opts AddOptions) (*Node, error) {
	if err := n.checkAdoptable("addAt", child); err != nil {
		return nil, err
	}
	return n.insert(index, child, opts), nil
}

func (n *Node) insert(index int, child *Node, opts AddOptions) *Node {
	search := n.IndexOf(child)
	if search != -1 && opts.NoMove {
		return child
	}
	if index < 0 || index > len(n.children) {
		index = len(n.children)
	}

	if child.parent != nil && child.parent != n {
		child.parent.detach(child.parent.IndexOf(child))
	}
	child.parent = n

	children := n.children
	event := EventAdded
	if search != -1 {
		children = withoutChild(children, search)
		event = EventMoved
		if !opts.NoShift && search < index {
			index--
		}
		index = min(index, len(children))
	}
	n.children = withChild(children, index, child)
	child.MatrixWorldNeedsUpdate = true

	child.dispatch(event, index)
	return child
}

// Remove detaches children from n. Every argument must be a child of n,
// otherwise nothing is removed.
func (n *Node) Remove(children ...*Node) error {
	for _, c := range children {
		if c == nil {
			return reject("remove", ErrNilNode, n)
		}
		if c.parent != n {
			return reject("remove", ErrNotChild, n)
		}
	}
	for _, c := range children {
		if i := n.IndexOf(c); i != -1 {
			n.detach(i)
		}
	}
	return nil
}

// RemoveAt detaches and returns the child at index.
func (n *Node) RemoveAt(index int) (*Node, error) {
	if index < 0 || index >= len(n.children) {
		return nil, reject("removeAt", ErrIndexOutOfRange, n)
	}
	return n.detach(index), nil
}

// RemoveAll detaches every child. Each "removed" event carries the index
// the child had before the call.
func (n *Node) RemoveAll() {
	old := n.children
	n.children = nil
	for i, c := range old {
		c.parent = nil
		c.MatrixWorldNeedsUpdate = true
		c.dispatch(EventRemoved, i)
	}
}

func (n *Node) RemoveFromParent() {
	if n.parent != nil {
		n.parent.detach(n.parent.IndexOf(n))
	}
}

// Replace puts newChild in old's slot and returns old. A nil newChild
// removes old. When newChild is already a child of n nothing happens and
// Replace returns nil.
func (n *Node) Replace(old, newChild *Node) (*Node, error) {
	if old == nil {
		return nil, reject("replace", ErrNilNode, n)
	}
	index := n.IndexOf(old)
	if index == -1 {
		return nil, reject("replace", ErrNotChild, n)
	}
	if newChild == nil {
		return n.detach(index), nil
	}
	if newChild.parent == n {
		return nil, nil
	}
	if n.inLineage(newChild) {
		return nil, reject("replace", ErrSelfParent, n)
	}

	newChild.RemoveFromParent()

	children := slices.Clone(n.children)
	children[index] = newChild
	n.children = children

	old.parent = nil
	old.MatrixWorldNeedsUpdate = true
	newChild.parent = n
	newChild.MatrixWorldNeedsUpdate = true

	old.dispatch(EventReplaced, index)
	newChild.dispatch(EventAdded, index)
	return old, nil
}

// Attach adds child to n keeping the child's world transform.
func (n *Node) Attach(child *Node) error {
	if err := n.checkAdoptable("attach", child); err != nil {
		return err
	}

	n.UpdateWorldMatrix(true, false)
	m := n.matrixWorld.Inv()
	if child.parent != nil {
		child.parent.UpdateWorldMatrix(true, false)
		m = m.Mul4(child.parent.matrixWorld)
	}
	child.ApplyMatrix(m)

	n.insert(-1, child, keepInPlace)
	child.UpdateWorldMatrix(false, true)
	return nil
}

func (n *Node) detach(index int) *Node {
	c := n.children[index]
	n.children = withoutChild(n.children, index)
	c.parent = nil
	c.MatrixWorldNeedsUpdate = true
	c.dispatch(EventRemoved, index)
	return c
}

func withoutChild(s []*Node, i int) []*Node {
	out := make([]*Node, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func withChild(s []*Node, i int, c *Node) []*Node {
	out := make([]*Node, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, c)
	return append(out, s[i:]...)
}
