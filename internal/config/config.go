package config

import (
	"sync"
	"time"
)

// Window holds window creation parameters
type Window struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	Fullscreen bool   `toml:"fullscreen"`
	FPSLimit   int    `toml:"fps_limit"` // 0 - unlimited
}

// Lights holds light counts, limits and shadow configuration
type Lights struct {
	PointCount           int     `toml:"point_count"`
	DirCount             int     `toml:"dir_count"`
	PointLimit           int     `toml:"point_limit"`
	DirLimit             int     `toml:"dir_limit"`
	ShadowMapResolution  int     `toml:"shadow_map_resolution"`
	ShadowMapInitialSlot int     `toml:"shadow_map_initial_slot"` // dir maps follow the point limit
	ShadowOpacity        float32 `toml:"shadow_opacity"`          // 1 - opaque shadow, 0 - transparent
	DiskRadiusK          float32 `toml:"disk_radius_k"`
	DiskRadiusMin        float32 `toml:"disk_radius_min"`
}

// TextureUnits is the number of fragment texture units GL 4.1 guarantees.
// Material maps take the units below ShadowMapInitialSlot.
const (
	TextureUnits  = 16
	MaterialUnits = 6
)

// Bones holds skinning limits
type Bones struct {
	MaxBones  int `toml:"max_bones"`
	MaxModels int `toml:"max_models"`
}

// Kernel is a gaussian blur kernel description
type Kernel struct {
	Radius int     `toml:"radius"`
	Sigma  float32 `toml:"sigma"`
}

// Post holds post-processing parameters
type Post struct {
	BloomK         float32 `toml:"bloom_k"`
	DofK           float32 `toml:"dof_k"`
	BloomKernel    Kernel  `toml:"bloom_kernel"`
	DofKernel      Kernel  `toml:"dof_kernel"`
	CocKernel      Kernel  `toml:"coc_kernel"`
	BloomThreshold float32 `toml:"bloom_threshold"`

	Exposure float32 `toml:"exposure"`
	Gamma    float32 `toml:"gamma"`

	DofImageDistance  float32  `toml:"dof_image_distance"`
	DofAperture       float32  `toml:"dof_aperture"`
	DofSigmaDivider   float32  `toml:"dof_sigma_divider"`
	FocusPullDuration Duration `toml:"focus_pull_duration"`
}

// Camera holds the initial camera setup
type Camera struct {
	Far         float32    `toml:"far"`
	Near        float32    `toml:"near"`
	FOV         float32    `toml:"fov"`   // degrees
	Pitch       float32    `toml:"pitch"` // degrees
	Position    [3]float32 `toml:"position"`
	MoveStep    float32    `toml:"move_step"`
	Sensitivity float32    `toml:"sensitivity"`
}

// Animation holds animation blending and lamp motion parameters
type Animation struct {
	BlendFactor     float32  `toml:"blend_factor"`
	BlendFactorStep float32  `toml:"blend_factor_step"`
	HeadStep        float32  `toml:"head_step"` // degrees
	LampStep        float32  `toml:"lamp_step"` // degrees per tick
	LampTick        Duration `toml:"lamp_tick"`
}

// Assets holds resource locations
type Assets struct {
	Root         string `toml:"root"`
	ShaderDir    string `toml:"shader_dir"` // optional on-disk override of the embedded shaders
	WatchShaders bool   `toml:"watch_shaders"`
}

// Settings is the full scene configuration
type Settings struct {
	Window    Window    `toml:"window"`
	Lights    Lights    `toml:"lights"`
	Bones     Bones     `toml:"bones"`
	Post      Post      `toml:"post"`
	Camera    Camera    `toml:"camera"`
	Animation Animation `toml:"animation"`
	Assets    Assets    `toml:"assets"`
}

// Default returns the stock scene configuration
func Default() Settings {
	return Settings{
		Window: Window{
			Width:  1366,
			Height: 763,
			Title:  "Algine",
		},
		Lights: Lights{
			PointCount:           1,
			DirCount:             1,
			PointLimit:           4,
			DirLimit:             4,
			ShadowMapResolution:  1024,
			ShadowOpacity:        0.65,
			DiskRadiusK:          1.0 / 25.0,
			DiskRadiusMin:        0,
			ShadowMapInitialSlot: 6,
		},
		Bones: Bones{
			MaxBones:  64,
			MaxModels: 2,
		},
		Post: Post{
			BloomK:            0.5,
			DofK:              0.5,
			BloomKernel:       Kernel{Radius: 15, Sigma: 16},
			DofKernel:         Kernel{Radius: 2, Sigma: 4},
			CocKernel:         Kernel{Radius: 2, Sigma: 6},
			BloomThreshold:    1.0,
			Exposure:          6.0,
			Gamma:             1.125,
			DofImageDistance:  1.0,
			DofAperture:       10.0,
			DofSigmaDivider:   1.5,
			FocusPullDuration: Duration(350 * time.Millisecond),
		},
		Camera: Camera{
			Far:         64,
			Near:        1,
			FOV:         60,
			Pitch:       30,
			Position:    [3]float32{0, 10, 14},
			MoveStep:    0.5,
			Sensitivity: 0.0025,
		},
		Animation: Animation{
			BlendFactor:     0.25,
			BlendFactorStep: 0.025,
			HeadStep:        5,
			LampStep:        0.01,
			LampTick:        Duration(time.Millisecond),
		},
		Assets: Assets{
			Root: "assets",
		},
	}
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Get returns a copy of the process-wide settings
func Get() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set replaces the process-wide settings
func Set(s Settings) {
	mu.Lock()
	defer mu.Unlock()
	current = s
}
