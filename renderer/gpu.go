package renderer

import (
	_ "embed"
	"errors"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/camera"
	"github.com/pthm-cable/mitosis/sim"
)

//go:embed shaders/disc.vs
var discVS string

//go:embed shaders/disc.fs
var discFS string

// ErrPipelineUnavailable reports that the disc shader pipeline could not
// be initialized on this device. It is an expected condition on hosts
// without instancing-capable GL; callers substitute the CPU strategies.
var ErrPipelineUnavailable = errors.New("renderer: disc shader pipeline unavailable")

// DiscPipeline rasterizes particles device-side: every particle expands
// to a screen-aligned instanced quad sized to its diameter, and the
// fragment stage discards fragments outside the circular footprint.
// This keeps circular silhouettes at populations where per-primitive
// circle draws stop scaling; the host uploads one transform buffer per
// color group instead of issuing per-particle draw calls.
type DiscPipeline struct {
	shader   rl.Shader
	mesh     rl.Mesh
	material rl.Material
	colorLoc int32

	transforms []rl.Matrix // per-frame scratch, regrown as population grows
}

// NewDiscPipeline compiles the instanced disc shader and builds the unit
// quad. Must be called after the raylib window exists.
func NewDiscPipeline() (*DiscPipeline, error) {
	shader := rl.LoadShaderFromMemory(discVS, discFS)
	if !rl.IsShaderValid(shader) {
		return nil, ErrPipelineUnavailable
	}

	shader.UpdateLocation(rl.ShaderLocMatrixMvp, rl.GetShaderLocation(shader, "mvp"))
	shader.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocationAttrib(shader, "instanceTransform"))
	colorLoc := rl.GetShaderLocation(shader, "particleColor")
	if colorLoc < 0 {
		rl.UnloadShader(shader)
		return nil, ErrPipelineUnavailable
	}

	mesh := rl.GenMeshPlane(1, 1, 1, 1)
	material := rl.LoadMaterialDefault()
	material.Shader = shader

	return &DiscPipeline{
		shader:   shader,
		mesh:     mesh,
		material: material,
		colorLoc: colorLoc,
	}, nil
}

// Draw renders the particle set, one instanced draw per distinct color.
func (dp *DiscPipeline) Draw(particles []sim.Particle, groups *colorGroups, cam *camera.Camera) {
	// Orthographic screen-space camera: one unit per pixel, origin at
	// the viewport center, Y up.
	view := rl.Camera3D{
		Position:   rl.Vector3{Z: 10},
		Up:         rl.Vector3{Y: 1},
		Fovy:       cam.ViewportH,
		Projection: rl.CameraOrthographic,
	}

	rl.BeginMode3D(view)
	for _, c := range groups.order {
		cr, cg, cb := sim.ColorRGB(c)
		rl.SetShaderValue(dp.shader, dp.colorLoc,
			[]float32{float32(cr) / 255, float32(cg) / 255, float32(cb) / 255, 1},
			rl.ShaderUniformVec4)

		dp.transforms = dp.transforms[:0]
		for _, idx := range groups.buckets[c] {
			p := &particles[idx]
			if !cam.IsVisible(p.X, p.Y, p.Radius) {
				continue
			}
			sx, sy := cam.WorldToScreen(p.X, p.Y)
			d := 2 * p.Radius * cam.Zoom

			// The unit plane lies in XZ: scale to the particle diameter,
			// stand it up to face the camera, then place it in screen
			// space (Y flipped: screen Y grows downward).
			m := rl.MatrixMultiply(
				rl.MatrixMultiply(rl.MatrixScale(d, 1, d), rl.MatrixRotateX(-math.Pi/2)),
				rl.MatrixTranslate(sx-cam.ViewportW/2, cam.ViewportH/2-sy, 0),
			)
			dp.transforms = append(dp.transforms, m)
		}
		if len(dp.transforms) > 0 {
			rl.DrawMeshInstanced(dp.mesh, dp.material, dp.transforms, len(dp.transforms))
		}
	}
	rl.EndMode3D()
}

// Unload releases the shader and mesh.
func (dp *DiscPipeline) Unload() {
	rl.UnloadShader(dp.shader)
	rl.UnloadMesh(&dp.mesh)
}
