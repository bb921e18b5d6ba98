package viewer

import (
	"image/color"
	"sort"

	"github.com/ungerik/go3d/vec3"

	"chosenoffset.com/radsim/internal/camera"
	"chosenoffset.com/radsim/internal/render"
	"chosenoffset.com/radsim/internal/scene"
)

var (
	backgroundColor = color.RGBA{0, 0, 0, 255}
	labelColor      = color.RGBA{255, 255, 255, 255}
	labelPosition   = vec3.T{0, 2, 0}
)

// triangle is a projected, shaded triangle waiting to be sorted.
type triangle struct {
	v     [3]render.Vertex
	depth float32
}

// Draw renders the scene and overlays.
func (v *Viewer) Draw(screen render.Image) {
	screen.Fill(backgroundColor)
	pr := v.camera.Projector()
	elapsed := v.now().Sub(v.start)
	snap := v.state.Snapshot()

	// Step 1: collect every mesh triangle, then paint far to near
	v.triangles = v.triangles[:0]
	if v.body != nil {
		v.body.Walk(scene.Identity(), func(n *scene.Node, world scene.Transform) {
			v.collectMesh(&pr, n.Mesh, world, n.Color, true)
		})
	}
	v.tumor.Local = scene.Translation(snap.Tumor)
	v.tumor.Walk(scene.Identity(), func(n *scene.Node, world scene.Transform) {
		v.collectMesh(&pr, n.Mesh, world, n.Color, true)
	})
	beamColor := scene.BeamStyle(elapsed, snap.Intensity)
	var arrows []scene.Arrow
	for _, src := range snap.Beams {
		a, ok := scene.NewArrow(src, snap.Tumor)
		if !ok {
			continue
		}
		arrows = append(arrows, a)
		v.collectMesh(&pr, v.headCone, a.Head, beamColor, false)
	}
	v.drawTriangles(screen)

	// Step 2: dose volume over the meshes
	if v.showVolume {
		style := v.style
		style.Threshold = snap.Threshold
		v.volume.Draw(screen, &pr, style)
	}

	// Step 3: beam shafts, gizmo and label
	for _, a := range arrows {
		x0, y0, _, ok0 := pr.Project(a.Start)
		x1, y1, _, ok1 := pr.Project(a.ShaftEnd)
		if ok0 && ok1 {
			v.renderer.StrokeLine(screen, x0, y0, x1, y1, 2, beamColor)
		}
	}
	v.gizmo.Draw(screen, &pr)
	if x, y, _, ok := pr.Project(labelPosition); ok && v.config.Scene.Label != "" {
		v.renderer.DrawTextCentered(screen, v.config.Scene.Label, int(x), int(y), labelColor, 1.5)
	}

	// Step 4: UI on top
	if v.showHUD {
		v.hud.Draw(screen, v.Stats())
	}
	v.panel.Draw(screen)
}

// collectMesh projects the front faces of mesh placed by world. Lit faces are
// shaded flat by the scene lights.
func (v *Viewer) collectMesh(pr *camera.Projector, mesh *scene.Mesh, world scene.Transform, base color.NRGBA, lit bool) {
	positions := make([]vec3.T, len(mesh.Positions))
	for i, p := range mesh.Positions {
		positions[i] = world.Apply(p)
	}

	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		a := positions[mesh.Indices[t]]
		b := positions[mesh.Indices[t+1]]
		c := positions[mesh.Indices[t+2]]

		ab := vec3.Sub(&b, &a)
		ac := vec3.Sub(&c, &a)
		normal := vec3.Cross(&ab, &ac)
		toFace := vec3.Sub(&a, &pr.Eye)
		if vec3.Dot(&normal, &toFace) >= 0 {
			continue
		}
		normal.Normalize()

		clr := base
		if lit {
			centroid := vec3.Add(&a, &b)
			centroid.Add(&c)
			centroid.Scale(1.0 / 3)
			clr = v.lights.Shade(base, centroid, normal)
		}

		var tri triangle
		visible := true
		for i, p := range [3]vec3.T{a, b, c} {
			x, y, depth, ok := pr.Project(p)
			if !ok {
				visible = false
				break
			}
			tri.depth += depth
			tri.v[i] = render.Vertex{
				DstX:   x,
				DstY:   y,
				ColorR: float32(clr.R) / 255,
				ColorG: float32(clr.G) / 255,
				ColorB: float32(clr.B) / 255,
				ColorA: float32(clr.A) / 255,
			}
		}
		if visible {
			v.triangles = append(v.triangles, tri)
		}
	}
}

// drawTriangles paints the collected triangles far to near in batches that
// fit uint16 indices.
func (v *Viewer) drawTriangles(dst render.Image) {
	if len(v.triangles) == 0 {
		return
	}
	if v.whiteImg == nil {
		v.whiteImg = v.renderer.NewImage(1, 1)
		v.whiteImg.Fill(color.White)
	}

	sort.Slice(v.triangles, func(i, j int) bool {
		return v.triangles[i].depth > v.triangles[j].depth
	})

	opts := &render.DrawTrianglesOptions{AntiAlias: false}
	v.vertices = v.vertices[:0]
	v.indices = v.indices[:0]
	for _, tri := range v.triangles {
		if len(v.vertices)+3 > render.MaxBatchVertices {
			dst.DrawTriangles(v.vertices, v.indices, v.whiteImg, opts)
			v.vertices = v.vertices[:0]
			v.indices = v.indices[:0]
		}
		base := uint16(len(v.vertices))
		v.vertices = append(v.vertices, tri.v[:]...)
		v.indices = append(v.indices, base, base+1, base+2)
	}
	dst.DrawTriangles(v.vertices, v.indices, v.whiteImg, opts)
}
