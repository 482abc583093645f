package thicket

// nodeIDCounter is a plain counter. Not atomic; thicket is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// TransformNode holds a 2D position, rotation and scale with an optional
// parent. Local and world matrices are computed lazily on read.
//
// Staleness is pulled, never pushed: every mutation bumps the node's change
// id, and a child notices that an ancestor moved by comparing the parent's
// live change id with the one it cached at its last world update. No child
// lists or listener registrations are kept.
//
// Reads such as WorldMatrix and ChangeID populate caches, so they are not
// side-effect free at the storage level even though they are referentially
// transparent.
type TransformNode struct {
	ID   uint32
	Name string

	position Vec2
	rotation float64
	scale    Vec2

	// parent is non-owning. A disposed parent is dropped on the next read.
	parent *TransformNode

	local      Matrix
	world      Matrix
	localDirty bool
	worldDirty bool

	changeID   uint64
	parentSeen uint64 // parent's change id at the last sync

	disposed bool

	// Rebuild counters, read by tests and debug stats.
	localBuilds int
	worldBuilds int
}

// NewTransformNode creates a root node at the origin with unit scale.
func NewTransformNode(name string) *TransformNode {
	return &TransformNode{
		ID:         nextNodeID(),
		Name:       name,
		scale:      Vec2{1, 1},
		local:      IdentityMatrix,
		world:      IdentityMatrix,
		localDirty: true,
		worldDirty: true,
		changeID:   1,
	}
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *TransformNode) SetPosition(x, y float64) {
	n.position = Vec2{x, y}
	n.touch()
}

// Move offsets the node's local position.
func (n *TransformNode) Move(dx, dy float64) {
	n.position.X += dx
	n.position.Y += dy
	n.touch()
}

// SetRotation sets the node's rotation in radians (counter-clockwise).
func (n *TransformNode) SetRotation(r float64) {
	n.rotation = r
	n.touch()
}

// Rotate adds d radians to the node's rotation.
func (n *TransformNode) Rotate(d float64) {
	n.rotation += d
	n.touch()
}

// SetScale sets the node's scale. Negative components mirror.
func (n *TransformNode) SetScale(sx, sy float64) {
	n.scale = Vec2{sx, sy}
	n.touch()
}

// Position returns the local position.
func (n *TransformNode) Position() Vec2 { return n.position }

// Rotation returns the local rotation in radians.
func (n *TransformNode) Rotation() float64 { return n.rotation }

// Scale returns the local scale.
func (n *TransformNode) Scale() Vec2 { return n.scale }

func (n *TransformNode) touch() {
	n.changeID++
	n.localDirty = true
	n.worldDirty = true
}

// --- Hierarchy ---

// SetParent attaches n under parent, or makes n a root when parent is nil.
// The local matrix is untouched; the world matrix is marked dirty and the
// change id advances because n's world placement may differ.
// Panics if parent is n or one of its descendants.
func (n *TransformNode) SetParent(parent *TransformNode) {
	if parent == n.parent {
		return
	}
	if parent != nil {
		if parent.disposed {
			panic("thicket: cannot parent to a disposed node")
		}
		if isAncestor(n, parent) {
			panic("thicket: setting parent would create a cycle")
		}
	}
	n.parent = parent
	n.parentSeen = 0
	n.worldDirty = true
	n.changeID++
	if globalDebug {
		debugCheckTreeDepth(n)
	}
}

// Parent returns the live parent, or nil for a root. A disposed parent is
// reported as nil.
func (n *TransformNode) Parent() *TransformNode {
	n.syncParent()
	return n.parent
}

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *TransformNode) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// syncParent drops a disposed parent and detects ancestor changes. If the
// parent's change id moved since the last sync, n's own change id advances
// and its world matrix is marked dirty. Cost is O(depth).
func (n *TransformNode) syncParent() {
	if n.parent == nil {
		return
	}
	if n.parent.disposed {
		n.parent = nil
		n.parentSeen = 0
		n.worldDirty = true
		n.changeID++
		return
	}
	pid := n.parent.ChangeID()
	if pid != n.parentSeen {
		n.parentSeen = pid
		n.worldDirty = true
		n.changeID++
	}
}

// ChangeID returns a counter that strictly increases whenever this node's
// world transform may have changed, including changes made to any ancestor.
func (n *TransformNode) ChangeID() uint64 {
	n.syncParent()
	return n.changeID
}

// LocalMatrix returns T(position) * R(rotation) * S(scale), recomputing it
// only when a setter ran since the last read.
func (n *TransformNode) LocalMatrix() Matrix {
	if n.localDirty {
		n.local = computeLocalTransform(n.position, n.rotation, n.scale)
		n.localDirty = false
		n.localBuilds++
	}
	return n.local
}

// WorldMatrix returns parent.WorldMatrix() * LocalMatrix(), or the local
// matrix for a root. The product is recomputed only when this node was
// mutated or an ancestor's change id advanced.
func (n *TransformNode) WorldMatrix() Matrix {
	n.syncParent()
	if !n.worldDirty {
		return n.world
	}
	local := n.LocalMatrix()
	if n.parent != nil {
		n.world = multiplyAffine(n.parent.WorldMatrix(), local)
	} else {
		n.world = local
	}
	n.worldDirty = false
	n.worldBuilds++
	return n.world
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *TransformNode) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(invertAffine(n.WorldMatrix()), wx, wy)
}

// LocalToWorld converts a local-space point to world-space.
func (n *TransformNode) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.WorldMatrix(), lx, ly)
}

// --- Disposal ---

// Dispose marks the node as dead. Children that still reference it fall
// back to being roots on their next read.
func (n *TransformNode) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	n.parent = nil
	n.ID = 0
}

// IsDisposed returns true if this node has been disposed.
func (n *TransformNode) IsDisposed() bool {
	return n.disposed
}
