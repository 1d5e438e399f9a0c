// Package scenegraph is a tree of transformable nodes with cached local and
// world matrices, structural notifications and the queries a renderer needs
// to turn the tree into draw calls.
package scenegraph

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type NodeType uint8

const (
	TypeObject3D NodeType = iota
	TypeGroup
	TypeMesh
	TypeScene
	TypeCamera
)

var nodeTypeNames = [...]string{"Object3D", "Group", "Mesh", "Scene", "Camera"}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", t)
}

// Defaults copied into every new node.
var (
	DefaultUp               = mgl64.Vec3{0, 1, 0}
	DefaultMatrixAutoUpdate = true
)

var nodeIDCounter atomic.Uint64

// RenderGroupSettings marks a node whose subtree is sorted as its own
// render group.
type RenderGroupSettings struct {
	// ExcludeTransparent sends transparent descendants to the enclosing list
	// instead of this group's transparent sub-list.
	ExcludeTransparent bool
}

// Node is a transformable element of the scene tree. A node has at most one
// parent and owns its children. Nodes are not safe for concurrent use.
type Node struct {
	id       uint64
	uuid     uuid.UUID
	nodeType NodeType

	Name string

	parent   *Node
	children []*Node // replaced, never mutated in place

	position   mgl64.Vec3
	rotation   Euler
	quaternion mgl64.Quat
	scale      mgl64.Vec3
	Up         mgl64.Vec3

	matrix      mgl64.Mat4
	matrixWorld mgl64.Mat4

	// MatrixAutoUpdate recomposes the local matrix from position, quaternion
	// and scale on every world matrix update.
	MatrixAutoUpdate       bool
	MatrixWorldNeedsUpdate bool

	visible       bool
	renderOrder   int
	FrustumCulled bool
	CastShadow    bool
	ReceiveShadow bool
	Layers        Layers

	UserData map[string]any

	Mesh        *Mesh
	RenderGroup *RenderGroupSettings

	listeners      map[EventType][]listenerEntry
	nextListenerID ListenerID
}

func NewNode(name string) *Node {
	return NewNodeOfType(name, TypeObject3D)
}

func NewGroup(name string) *Node {
	return NewNodeOfType(name, TypeGroup)
}

func NewScene(name string) *Node {
	return NewNodeOfType(name, TypeScene)
}

// NewNodeOfType creates a node with identity transform and no parent.
func NewNodeOfType(name string, t NodeType) *Node {
	return &Node{
		id:               nodeIDCounter.Add(1) - 1,
		uuid:             uuid.New(),
		nodeType:         t,
		Name:             name,
		quaternion:       mgl64.QuatIdent(),
		scale:            mgl64.Vec3{1, 1, 1},
		Up:               DefaultUp,
		matrix:           mgl64.Ident4(),
		matrixWorld:      mgl64.Ident4(),
		MatrixAutoUpdate: DefaultMatrixAutoUpdate,
		visible:          true,
		FrustumCulled:    true,
		Layers:           DefaultLayers,
		UserData:         map[string]any{},
	}
}

func (n *Node) ID() uint64      { return n.id }
func (n *Node) UUID() uuid.UUID { return n.uuid }
func (n *Node) Type() NodeType  { return n.nodeType }

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d(%q)", n.nodeType, n.id, n.Name)
}

func (n *Node) Visible() bool            { return n.visible }
func (n *Node) SetVisible(visible bool)  { n.visible = visible }
func (n *Node) RenderOrder() int         { return n.renderOrder }
func (n *Node) SetRenderOrder(order int) { n.renderOrder = order }

// ExcludeTransparent reports the render group setting of n, false when n
// is not a render group.
func (n *Node) ExcludeTransparent() bool {
	return n.RenderGroup != nil && n.RenderGroup.ExcludeTransparent
}

func (n *Node) IsRenderGroup() bool { return n.RenderGroup != nil }

// Matrix returns the cached local matrix.
func (n *Node) Matrix() mgl64.Mat4 { return n.matrix }

// SetMatrix replaces the local matrix without touching position, rotation
// or scale. Pair it with MatrixAutoUpdate = false.
func (n *Node) SetMatrix(m mgl64.Mat4) {
	n.matrix = m
	n.MatrixWorldNeedsUpdate = true
}

// MatrixWorld returns the cached world matrix. It is only as fresh as the
// last UpdateMatrixWorld or UpdateWorldMatrix call that reached n.
func (n *Node) MatrixWorld() mgl64.Mat4 { return n.matrixWorld }
