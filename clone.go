package scenegraph

// Clone returns a copy of n with a new identity and no parent. With
// recursive set the children are cloned too. Geometry and materials are
// shared, user data is deep copied.
func (n *Node) Clone(recursive bool) *Node {
	c := NewNodeOfType(n.Name, n.nodeType)
	c.Copy(n, recursive)
	return c
}

// Copy overwrites the properties of n with those of source. Identity,
// parent and listeners of n are kept. With recursive set, clones of the
// source children are appended to n.
func (n *Node) Copy(source *Node, recursive bool) *Node {
	n.Name = source.Name
	n.Up = source.Up

	n.position = source.position
	n.rotation = source.rotation
	n.quaternion = source.quaternion
	n.scale = source.scale

	n.matrix = source.matrix
	n.matrixWorld = source.matrixWorld
	n.MatrixAutoUpdate = source.MatrixAutoUpdate
	n.MatrixWorldNeedsUpdate = source.MatrixWorldNeedsUpdate

	n.Layers = source.Layers
	n.visible = source.visible
	n.CastShadow = source.CastShadow
	n.ReceiveShadow = source.ReceiveShadow
	n.FrustumCulled = source.FrustumCulled
	n.renderOrder = source.renderOrder

	n.UserData = deepCopyMap(source.UserData)

	n.Mesh = nil
	if source.Mesh != nil {
		m := *source.Mesh
		m.Materials = append(m.Materials[:0:0], source.Mesh.Materials...)
		n.Mesh = &m
	}
	n.RenderGroup = nil
	if source.RenderGroup != nil {
		rg := *source.RenderGroup
		n.RenderGroup = &rg
	}

	if recursive {
		for _, child := range source.children {
			n.insert(-1, child.Clone(true), AddOptions{})
		}
	}
	return n
}

// Dispose notifies "dispose" listeners. Caches keyed by n, such as render
// lists, drop their entries. The tree itself is left as it is.
func (n *Node) Dispose() {
	n.dispatch(EventDispose, -1)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
