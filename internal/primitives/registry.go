package primitives

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"room-designer/internal/geom"
	"room-designer/internal/scene"
)

type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
}

// Registry draws the room and furniture as lit unit cubes and planes. GPU resources are created
// on first draw, once a GL context exists.
type Registry struct {
	cache    map[string]cached
	shader   rl.Shader
	locs     map[string]int32
	viewPos  [3]float32
	lighting Lighting
}

// NewRegistry returns a registry lit for daytime.
func NewRegistry() *Registry {
	return &Registry{
		cache:    make(map[string]cached),
		locs:     make(map[string]int32),
		lighting: LightingFor(scene.LightingDay),
	}
}

// SetView sets the camera position and the lighting preset for this frame. Call once per frame
// before drawing.
func (r *Registry) SetView(viewPos [3]float32, mode scene.LightingMode) {
	r.viewPos = viewPos
	r.lighting = LightingFor(mode)
}

// Lighting is the preset applied by the last SetView.
func (r *Registry) Lighting() Lighting { return r.lighting }

func (r *Registry) litShader() rl.Shader {
	if !rl.IsShaderValid(r.shader) {
		r.shader = rl.LoadShaderFromMemory(litVS, litFS)
	}
	return r.shader
}

// ensure creates the mesh for key if not yet cached. Both primitives are unit sized and centred.
func (r *Registry) ensure(key string) (cached, bool) {
	if c, ok := r.cache[key]; ok {
		return c, true
	}
	var mesh rl.Mesh
	switch key {
	case "cube":
		mesh = rl.GenMeshCube(1, 1, 1)
	case "plane":
		mesh = rl.GenMeshPlane(1, 1, 1, 1)
	default:
		return cached{}, false
	}
	mtl := rl.LoadMaterialDefault()
	if shader := r.litShader(); rl.IsShaderValid(shader) {
		mtl.Shader = shader
	}
	c := cached{mesh: mesh, mtl: mtl}
	r.cache[key] = c
	return c, true
}

// The lit shader: hemisphere ambient between ground and sky, a wrapped directional term and an
// emissive mix for lamps.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
out vec3 worldNormal;
out vec3 worldPos;
void main() {
  worldPos = (matModel * vec4(vertexPosition, 1.0)).xyz;
  worldNormal = normalize(mat3(matModel) * vertexNormal);
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	litFS = `#version 330
in vec3 worldNormal;
in vec3 worldPos;
uniform vec4 colDiffuse;
uniform vec3 skyAmbient;
uniform vec3 groundAmbient;
uniform vec3 sunDir;
uniform vec3 sunColor;
uniform float emissive;
uniform vec3 eye;
out vec4 finalColor;
void main() {
  vec3 n = normalize(worldNormal);
  vec3 ambient = mix(groundAmbient, skyAmbient, n.y * 0.5 + 0.5);
  float wrap = clamp((dot(n, normalize(sunDir)) + 0.3) / 1.3, 0.0, 1.0);
  float rim = pow(1.0 - max(dot(n, normalize(eye - worldPos)), 0.0), 3.0) * 0.08;
  vec3 lit = colDiffuse.rgb * (ambient + sunColor * wrap) + rim;
  finalColor = vec4(mix(lit, colDiffuse.rgb, emissive), colDiffuse.a);
}
`
)

// uniform sets one value on the shader, skipping names the driver optimised away.
func (r *Registry) uniform(name string, v []float32, typ rl.ShaderUniformDataType) {
	loc, ok := r.locs[name]
	if !ok {
		loc = rl.GetShaderLocation(r.shader, name)
		r.locs[name] = loc
	}
	if loc < 0 {
		return
	}
	if typ == rl.ShaderUniformFloat {
		rl.SetShaderValue(r.shader, loc, v, typ)
		return
	}
	rl.SetShaderValueV(r.shader, loc, v, typ, 1)
}

// setUniforms uploads the frame lighting. Slices are freshly allocated for each call to cgo.
func (r *Registry) setUniforms(emissive float32) {
	if !rl.IsShaderValid(r.shader) {
		return
	}
	l := r.lighting
	sun := []float32{l.SunColor[0] * l.Intensity, l.SunColor[1] * l.Intensity, l.SunColor[2] * l.Intensity}
	r.uniform("skyAmbient", l.SkyAmbient[:], rl.ShaderUniformVec3)
	r.uniform("groundAmbient", l.GroundAmbient[:], rl.ShaderUniformVec3)
	r.uniform("sunDir", l.SunDir[:], rl.ShaderUniformVec3)
	r.uniform("sunColor", sun, rl.ShaderUniformVec3)
	r.uniform("eye", r.viewPos[:], rl.ShaderUniformVec3)
	r.uniform("emissive", []float32{emissive}, rl.ShaderUniformFloat)
}

func (r *Registry) draw(key string, center, size [3]float32, col color.RGBA, emissive float32) {
	c, ok := r.ensure(key)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = col
	}
	r.setUniforms(emissive)
	scaleM := rl.MatrixScale(size[0], size[1], size[2])
	transM := rl.MatrixTranslate(center[0], center[1], center[2])
	rl.DrawMesh(c.mesh, c.mtl, rl.MatrixMultiply(scaleM, transM))
}

// DrawBox draws an axis-aligned box. Must be called between BeginMode3D and EndMode3D.
func (r *Registry) DrawBox(b geom.AABB, col color.RGBA) {
	c, s := b.Center(), b.Size()
	r.draw("cube", [3]float32(c), [3]float32(s), col, 0)
}

// DrawGlowBox draws a box that lights itself by the preset glow, e.g. a lamp shade at night.
func (r *Registry) DrawGlowBox(b geom.AABB, col color.RGBA) {
	c, s := b.Center(), b.Size()
	r.draw("cube", [3]float32(c), [3]float32(s), col, r.lighting.Glow)
}

// DrawFloor draws a width x depth quad at y, centred on the origin.
func (r *Registry) DrawFloor(width, depth, y float32, col color.RGBA) {
	r.draw("plane", [3]float32{0, y, 0}, [3]float32{width, 1, depth}, col, 0)
}

// Unload frees every cached mesh and the shader. The registry can be reused afterwards.
func (r *Registry) Unload() {
	for k, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		delete(r.cache, k)
	}
	if rl.IsShaderValid(r.shader) {
		rl.UnloadShader(r.shader)
		r.shader = rl.Shader{}
	}
	clear(r.locs)
}
