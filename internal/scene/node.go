package scene

import (
	"image/color"
)

// Node is an element of the scene graph. A node without a mesh only groups
// its children.
type Node struct {
	Name     string
	Local    Transform
	Mesh     *Mesh
	Color    color.NRGBA
	Children []*Node
}

// NewGroup creates an empty grouping node at the origin.
func NewGroup(name string, children ...*Node) *Node {
	return &Node{Name: name, Local: Identity(), Children: children}
}

// Walk calls fn for every node carrying a mesh, together with its world transform.
func (n *Node) Walk(parent Transform, fn func(n *Node, world Transform)) {
	world := parent.Mul(n.Local)
	if n.Mesh != nil {
		fn(n, world)
	}
	for _, c := range n.Children {
		c.Walk(world, fn)
	}
}
