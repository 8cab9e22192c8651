package shaders

import (
	"strconv"

	"chess-scene/internal/config"
)

// Program names, one per compiled program
const (
	Color        = "Color"
	PointShadow  = "PointShadow"
	DirShadow    = "DirShadow"
	Skybox       = "Skybox"
	SSR          = "SSR"
	BloomSearch  = "BloomSearch"
	BloomBlurHor = "BloomBlur.hor"
	BloomBlurVer = "BloomBlur.ver"
	DofBlurHor   = "DofBlur.hor"
	DofBlurVer   = "DofBlur.ver"
	CocBlurHor   = "CocBlur.hor"
	CocBlurVer   = "CocBlur.ver"
	DofCoc       = "DofCoc"
	Blend        = "Blend"
)

// BonesBlock is the skinning uniform block shared by the color and shadow programs
const (
	BonesBlock          = "Bones"
	BonesBinding uint32 = 0
)

const (
	quadVertex    = "quad.vert"
	shadowVertex  = "shadow.vert"
	blurFragment  = "blur.frag"
	skyboxVertex  = "skybox.vert"
	colorVertex   = "color.vert"
	colorFragment = "color.frag"

	ssrMaxSteps  = 48
	ssrStep      = "0.25"
	ssrThickness = "0.5"
)

// Define is a preprocessor definition injected after the version line
type Define struct {
	Name  string
	Value string
}

// Desc names the source files and defines of one program
type Desc struct {
	Name     string
	Vertex   string
	Geometry string
	Fragment string
	Defines  []Define
}

// Programs returns every program the scene compiles, configured from s
func Programs(s config.Settings) []Desc {
	itoa := func(v int) string { return strconv.Itoa(v) }
	bones := Define{"MAX_BONES", itoa(s.Bones.MaxBones)}

	blur := func(name string, radius int, horizontal bool, scalar bool) Desc {
		d := Desc{
			Name:     name,
			Vertex:   quadVertex,
			Fragment: blurFragment,
			Defines:  []Define{{"KERNEL_RADIUS", itoa(radius)}},
		}
		if horizontal {
			d.Defines = append(d.Defines, Define{Name: "HORIZONTAL"})
		}
		if scalar {
			d.Defines = append(d.Defines, Define{"BLUR_TYPE", "float"}, Define{"BLUR_SWIZZLE", "r"})
		} else {
			d.Defines = append(d.Defines, Define{"BLUR_TYPE", "vec3"}, Define{"BLUR_SWIZZLE", "rgb"})
		}
		return d
	}

	return []Desc{
		{
			Name:     Color,
			Vertex:   colorVertex,
			Fragment: colorFragment,
			Defines: []Define{
				bones,
				{"MAX_POINT_LIGHTS", itoa(s.Lights.PointLimit)},
				{"MAX_DIR_LIGHTS", itoa(s.Lights.DirLimit)},
			},
		},
		{Name: PointShadow, Vertex: shadowVertex, Geometry: "point_shadow.geom", Fragment: "point_shadow.frag", Defines: []Define{bones}},
		{Name: DirShadow, Vertex: shadowVertex, Fragment: "dir_shadow.frag", Defines: []Define{bones}},
		{Name: Skybox, Vertex: skyboxVertex, Fragment: "skybox.frag"},
		{
			Name:     SSR,
			Vertex:   quadVertex,
			Fragment: "ssr.frag",
			Defines: []Define{
				{"SSR_MAX_STEPS", itoa(ssrMaxSteps)},
				{"SSR_STEP", ssrStep},
				{"SSR_THICKNESS", ssrThickness},
			},
		},
		{Name: BloomSearch, Vertex: quadVertex, Fragment: "bloom_search.frag"},
		blur(BloomBlurHor, s.Post.BloomKernel.Radius, true, false),
		blur(BloomBlurVer, s.Post.BloomKernel.Radius, false, false),
		blur(DofBlurHor, s.Post.DofKernel.Radius, true, false),
		blur(DofBlurVer, s.Post.DofKernel.Radius, false, false),
		blur(CocBlurHor, s.Post.CocKernel.Radius, true, true),
		blur(CocBlurVer, s.Post.CocKernel.Radius, false, true),
		{Name: DofCoc, Vertex: quadVertex, Fragment: "coc.frag"},
		{Name: Blend, Vertex: quadVertex, Fragment: "blend.frag"},
	}
}
