package scenegraph

import (
	"github.com/go-gl/mathgl/mgl64"
)

func (n *Node) Position() mgl64.Vec3   { return n.position }
func (n *Node) Rotation() Euler        { return n.rotation }
func (n *Node) Quaternion() mgl64.Quat { return n.quaternion }
func (n *Node) Scale() mgl64.Vec3      { return n.scale }

func (n *Node) SetPosition(p mgl64.Vec3) {
	n.position = p
	n.MatrixWorldNeedsUpdate = true
}

// SetRotation sets the Euler angles and derives the quaternion from them.
func (n *Node) SetRotation(e Euler) {
	n.rotation = e
	n.quaternion = e.Quat()
	n.MatrixWorldNeedsUpdate = true
}

// SetQuaternion sets the rotation and derives the Euler angles in the
// current rotation order.
func (n *Node) SetQuaternion(q mgl64.Quat) {
	n.quaternion = q.Normalize()
	n.rotation = EulerFromQuat(n.quaternion, n.rotation.Order)
	n.MatrixWorldNeedsUpdate = true
}

func (n *Node) SetScale(s mgl64.Vec3) {
	n.scale = s
	n.MatrixWorldNeedsUpdate = true
}

// TransformUpdate lists the local transform parts to change. Nil fields are
// left alone. Quaternion wins when both rotation forms are given.
type TransformUpdate struct {
	Position   *mgl64.Vec3
	Rotation   *Euler
	Quaternion *mgl64.Quat
	Scale      *mgl64.Vec3
}

func (n *Node) SetLocalTransform(u TransformUpdate) {
	if u.Position != nil {
		n.position = *u.Position
	}
	switch {
	case u.Quaternion != nil:
		if u.Rotation != nil {
			n.rotation.Order = u.Rotation.Order
		}
		n.quaternion = u.Quaternion.Normalize()
		n.rotation = EulerFromQuat(n.quaternion, n.rotation.Order)
	case u.Rotation != nil:
		n.rotation = *u.Rotation
		n.quaternion = u.Rotation.Quat()
	}
	if u.Scale != nil {
		n.scale = *u.Scale
	}
	n.MatrixWorldNeedsUpdate = true
}

// UpdateMatrix recomposes the local matrix from position, quaternion and scale.
func (n *Node) UpdateMatrix() {
	n.matrix = ComposeMatrix(n.position, n.quaternion, n.scale)
	n.MatrixWorldNeedsUpdate = true
}

// Decompose sets position, rotation and scale from m and stores m as the
// local matrix.
func (n *Node) Decompose(m mgl64.Mat4) {
	n.position, n.quaternion, n.scale = DecomposeMatrix(m)
	n.rotation = EulerFromQuat(n.quaternion, n.rotation.Order)
	n.matrix = m
	n.MatrixWorldNeedsUpdate = true
}

// ApplyMatrix pre-multiplies the local matrix by m.
func (n *Node) ApplyMatrix(m mgl64.Mat4) {
	if n.MatrixAutoUpdate {
		n.UpdateMatrix()
	}
	n.Decompose(m.Mul4(n.matrix))
}

// UpdateMatrixWorld refreshes the world matrices of n and its subtree. A
// node is recomputed when it is dirty or force is set; once a node is
// recomputed every descendant is recomputed too.
func (n *Node) UpdateMatrixWorld(force bool) {
	if n.MatrixAutoUpdate {
		n.UpdateMatrix()
	}

	if n.MatrixWorldNeedsUpdate || force {
		if n.parent == nil {
			n.matrixWorld = n.matrix
		} else {
			n.matrixWorld = n.parent.matrixWorld.Mul4(n.matrix)
		}
		n.MatrixWorldNeedsUpdate = false
		force = true
	}

	for _, child := range n.children {
		child.UpdateMatrixWorld(force)
	}
}

// UpdateWorldMatrix recomputes the world matrix of n, first walking up the
// ancestor chain when updateParents is set and afterwards down the subtree
// when updateChildren is set.
func (n *Node) UpdateWorldMatrix(updateParents, updateChildren bool) {
	if updateParents && n.parent != nil {
		n.parent.UpdateWorldMatrix(true, false)
	}

	if n.MatrixAutoUpdate {
		n.UpdateMatrix()
	}
	if n.parent == nil {
		n.matrixWorld = n.matrix
	} else {
		n.matrixWorld = n.parent.matrixWorld.Mul4(n.matrix)
	}

	if updateChildren {
		for _, child := range n.children {
			child.UpdateWorldMatrix(false, true)
		}
	}
}

func (n *Node) GetWorldPosition() mgl64.Vec3 {
	n.UpdateWorldMatrix(true, false)
	return n.matrixWorld.Col(3).Vec3()
}

func (n *Node) GetWorldQuaternion() mgl64.Quat {
	n.UpdateWorldMatrix(true, false)
	_, q, _ := DecomposeMatrix(n.matrixWorld)
	return q
}

// GetWorldRotation returns the world rotation in n's rotation order.
func (n *Node) GetWorldRotation() Euler {
	return EulerFromQuat(n.GetWorldQuaternion(), n.rotation.Order)
}

func (n *Node) GetWorldScale() mgl64.Vec3 {
	n.UpdateWorldMatrix(true, false)
	_, _, s := DecomposeMatrix(n.matrixWorld)
	return s
}

// GetWorldDirection returns the node's local +Z axis in world space.
func (n *Node) GetWorldDirection() mgl64.Vec3 {
	return n.GetWorldQuaternion().Rotate(mgl64.Vec3{0, 0, 1})
}

func (n *Node) SetRotationFromAxisAngle(axis mgl64.Vec3, angle float64) {
	n.SetQuaternion(mgl64.QuatRotate(angle, axis.Normalize()))
}

func (n *Node) SetRotationFromEuler(e Euler) {
	n.SetRotation(e)
}

// SetRotationFromMatrix takes the rotation of m. The upper 3x3 of m must
// be unscaled.
func (n *Node) SetRotationFromMatrix(m mgl64.Mat4) {
	n.SetQuaternion(mgl64.Mat4ToQuat(m))
}

func (n *Node) SetRotationFromQuaternion(q mgl64.Quat) {
	n.SetQuaternion(q)
}

// RotateOnAxis rotates n around a normalized axis in local space.
func (n *Node) RotateOnAxis(axis mgl64.Vec3, angle float64) {
	n.SetQuaternion(n.quaternion.Mul(mgl64.QuatRotate(angle, axis)))
}

// RotateOnWorldAxis rotates n around a normalized axis in world space. The
// parent must not be rotated.
func (n *Node) RotateOnWorldAxis(axis mgl64.Vec3, angle float64) {
	n.SetQuaternion(mgl64.QuatRotate(angle, axis).Mul(n.quaternion))
}

func (n *Node) RotateX(angle float64) { n.RotateOnAxis(mgl64.Vec3{1, 0, 0}, angle) }
func (n *Node) RotateY(angle float64) { n.RotateOnAxis(mgl64.Vec3{0, 1, 0}, angle) }
func (n *Node) RotateZ(angle float64) { n.RotateOnAxis(mgl64.Vec3{0, 0, 1}, angle) }

// TranslateOnAxis moves n by distance along a normalized axis in local space.
func (n *Node) TranslateOnAxis(axis mgl64.Vec3, distance float64) {
	n.SetPosition(n.position.Add(n.quaternion.Rotate(axis).Mul(distance)))
}

func (n *Node) TranslateX(distance float64) { n.TranslateOnAxis(mgl64.Vec3{1, 0, 0}, distance) }
func (n *Node) TranslateY(distance float64) { n.TranslateOnAxis(mgl64.Vec3{0, 1, 0}, distance) }
func (n *Node) TranslateZ(distance float64) { n.TranslateOnAxis(mgl64.Vec3{0, 0, 1}, distance) }

// LocalToWorld maps a point from n's space with the cached world matrix.
func (n *Node) LocalToWorld(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(v, n.matrixWorld)
}

// WorldToLocal maps a world point into n's space with the cached world matrix.
func (n *Node) WorldToLocal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(v, n.matrixWorld.Inv())
}

// LookAt rotates n so its +Z axis faces target, given in world space.
// Cameras instead point their -Z axis at the target.
func (n *Node) LookAt(target mgl64.Vec3) {
	n.UpdateWorldMatrix(true, false)
	position := n.matrixWorld.Col(3).Vec3()

	var m mgl64.Mat4
	if n.nodeType == TypeCamera {
		m = lookAtRotation(position, target, n.Up)
	} else {
		m = lookAtRotation(target, position, n.Up)
	}
	q := mgl64.Mat4ToQuat(m)

	if n.parent != nil {
		parentRotation := mgl64.Mat4ToQuat(rotationOf(n.parent.matrixWorld))
		q = parentRotation.Inverse().Mul(q)
	}
	n.SetQuaternion(q)
}
