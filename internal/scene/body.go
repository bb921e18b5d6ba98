package scene

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"
)

// Colors of the patient model.
var (
	SkinColor  = color.NRGBA{0xf4, 0xd3, 0xa3, 0xff}
	TumorColor = color.NRGBA{0xff, 0x00, 0x00, 0xb3} // 70% opaque
)

const capsuleSegments = 20

// NewBody assembles the stylized patient: torso, head, two arms and two legs.
func NewBody() *Node {
	part := func(name string, mesh *Mesh, pos, rot vec3.T) *Node {
		return &Node{Name: name, Local: Euler(pos, rot), Mesh: mesh, Color: SkinColor}
	}

	arm := Capsule(0.1, 0.8, capsuleSegments, capsuleSegments)
	leg := Capsule(0.15, 1, capsuleSegments, capsuleSegments)

	return NewGroup("body",
		part("torso", Capsule(0.5, 1, capsuleSegments, capsuleSegments), vec3.T{0, 0, 0}, vec3.T{}),
		part("head", Sphere(0.3, 32, 32), vec3.T{0, 1, 0}, vec3.T{}),
		part("left_arm", arm, vec3.T{-0.7, 0.2, 0}, vec3.T{0, 0, math32.Pi / 2}),
		part("right_arm", arm, vec3.T{0.7, 0.2, 0}, vec3.T{0, 0, -math32.Pi / 2}),
		part("left_leg", leg, vec3.T{-0.3, -1.2, 0}, vec3.T{}),
		part("right_leg", leg, vec3.T{0.3, -1.2, 0}, vec3.T{}),
	)
}

// NewTumor creates the tumor marker. Its position is set per frame from State.
func NewTumor(radius float32) *Node {
	return &Node{Name: "tumor", Local: Identity(), Mesh: Sphere(radius, 32, 32), Color: TumorColor}
}
