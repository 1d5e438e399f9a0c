package scenegraph

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// Traverse visits n and its descendants depth first, parents before
// children. Children added or removed by visit take effect for the next walk.
func (n *Node) Traverse(visit func(*Node)) {
	visit(n)
	for _, child := range n.children {
		child.Traverse(visit)
	}
}

// TraverseVisible is Traverse that skips invisible subtrees entirely.
func (n *Node) TraverseVisible(visit func(*Node)) {
	if !n.visible {
		return
	}
	visit(n)
	for _, child := range n.children {
		child.TraverseVisible(visit)
	}
}

// TraverseAncestors visits the parent chain of n, nearest first.
func (n *Node) TraverseAncestors(visit func(*Node)) {
	for p := n.parent; p != nil; p = p.parent {
		visit(p)
	}
}

// FindObject returns the first node in pre-order for which match is true.
func (n *Node) FindObject(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, child := range n.children {
		if found := child.FindObject(match); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) GetObjectByID(id uint64) *Node {
	return n.FindObject(func(o *Node) bool { return o.id == id })
}

func (n *Node) GetObjectByName(name string) *Node {
	return n.FindObject(func(o *Node) bool { return o.Name == name })
}

func (n *Node) GetObjectByUUID(id uuid.UUID) *Node {
	return n.FindObject(func(o *Node) bool { return o.uuid == id })
}

// GetObjectByProperty matches the built in properties "id", "uuid", "name"
// and "type", and any other name against UserData.
func (n *Node) GetObjectByProperty(name string, value any) *Node {
	return n.FindObject(func(o *Node) bool {
		v := o.property(name)
		return v != nil && reflect.TypeOf(v).Comparable() && v == value
	})
}

func (n *Node) property(name string) any {
	switch name {
	case "id":
		return n.id
	case "uuid":
		return n.uuid
	case "name":
		return n.Name
	case "type":
		return n.nodeType
	}
	return n.UserData[name]
}

// Get resolves a slash separated path of child names relative to n. ".."
// steps to the parent and empty segments are ignored.
func (n *Node) Get(path string) *Node {
	current := n
	for _, part := range strings.Split(path, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			current = current.parent
		default:
			var next *Node
			for _, c := range current.children {
				if c.Name == part {
					next = c
					break
				}
			}
			current = next
		}
		if current == nil {
			return nil
		}
	}
	return current
}

// HierarchyString renders the subtree as an indented list, one node per line.
func (n *Node) HierarchyString() string {
	var b strings.Builder
	n.writeHierarchy(&b, 0)
	return b.String()
}

func (n *Node) writeHierarchy(b *strings.Builder, depth int) {
	fmt.Fprintf(b, "%s%s", strings.Repeat("  ", depth), n)
	if !n.visible {
		b.WriteString(" hidden")
	}
	if n.RenderGroup != nil {
		b.WriteString(" renderGroup")
	}
	b.WriteByte('\n')
	for _, c := range n.children {
		c.writeHierarchy(b, depth+1)
	}
}
