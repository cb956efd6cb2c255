package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/camera"
	"github.com/pthm-cable/sph/fluid"
)

//go:embed shaders/metaball.fs
var metaballShader string

const (
	metaballSize      = 256
	metaballThreshold = 0.45
	// sprite diameter in particle spacings
	metaballSpacings = 4.2
)

// WaterRenderer draws the fluid as a continuous surface: soft sprites are
// accumulated additively into an offscreen target, then a threshold shader
// turns the summed field into water.
type WaterRenderer struct {
	shader       rl.Shader
	thresholdLoc int32
	metaball     rl.Texture2D
	target       rl.RenderTexture2D

	spacing       float32
	width, height int32
	initialized   bool
}

// NewWaterRenderer creates a water renderer for a viewport of the given size.
func NewWaterRenderer(width, height int32, spacing float64) *WaterRenderer {
	return &WaterRenderer{
		width:   width,
		height:  height,
		spacing: float32(spacing),
	}
}

// Init loads GPU resources (must be called after the raylib window is created).
func (w *WaterRenderer) Init() {
	if w.initialized {
		return
	}

	w.shader = rl.LoadShaderFromMemory("", metaballShader)
	w.thresholdLoc = rl.GetShaderLocation(w.shader, "threshold")
	rl.SetShaderValue(w.shader, w.thresholdLoc, []float32{metaballThreshold}, rl.ShaderUniformFloat)

	img := rl.GenImageGradientRadial(metaballSize, metaballSize, 0, rl.White, rl.Black)
	w.metaball = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(w.metaball, rl.FilterBilinear)

	w.target = rl.LoadRenderTexture(w.width, w.height)
	rl.SetTextureFilter(w.target.Texture, rl.FilterBilinear)

	w.initialized = true
}

// Draw renders the particles as water.
func (w *WaterRenderer) Draw(particles []fluid.Particle, cam *camera.Camera) {
	if !w.initialized {
		w.Init()
	}

	size := cam.WorldLength(metaballSpacings * w.spacing)
	src := rl.Rectangle{Width: metaballSize, Height: metaballSize}

	rl.BeginTextureMode(w.target)
	rl.ClearBackground(rl.Black)
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range particles {
		p := &particles[i]
		sx, sy := cam.WorldToScreen(float32(p.Position.X), float32(p.Position.Y))
		dst := rl.Rectangle{X: sx - size/2, Y: sy - size/2, Width: size, Height: size}
		rl.DrawTexturePro(w.metaball, src, dst, rl.Vector2{}, 0, rl.White)
	}
	rl.EndBlendMode()
	rl.EndTextureMode()

	// Render textures are stored upside down (OpenGL convention).
	flipped := rl.Rectangle{
		Y:      float32(w.height),
		Width:  float32(w.width),
		Height: -float32(w.height),
	}
	screen := rl.Rectangle{Width: float32(w.width), Height: float32(w.height)}

	rl.BeginShaderMode(w.shader)
	rl.DrawTexturePro(w.target.Texture, flipped, screen, rl.Vector2{}, 0, rl.White)
	rl.EndShaderMode()
}

// Unload frees resources.
func (w *WaterRenderer) Unload() {
	if w.initialized {
		rl.UnloadShader(w.shader)
		rl.UnloadTexture(w.metaball)
		rl.UnloadRenderTexture(w.target)
		w.initialized = false
	}
}
