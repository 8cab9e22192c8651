package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that reads from TOML strings such as "350ms"
type Duration time.Duration

// D returns the value as a time.Duration
func (d Duration) D() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Load reads a TOML file on top of the defaults. Keys missing from the file keep their
// default value; unknown keys are rejected.
func Load(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return Settings{}, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Decode reads TOML from r on top of the defaults and validates the result
func Decode(r io.Reader) (Settings, error) {
	s := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Settings{}, fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the scene cannot be built with
func (s *Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(s.Window.Width > 0 && s.Window.Height > 0, "window size must be positive, got %dx%d", s.Window.Width, s.Window.Height)
	check(s.Window.FPSLimit >= 0, "fps limit must not be negative, got %d", s.Window.FPSLimit)
	check(s.Lights.PointCount >= 0 && s.Lights.PointCount <= s.Lights.PointLimit,
		"point light count %d outside [0, %d]", s.Lights.PointCount, s.Lights.PointLimit)
	check(s.Lights.DirCount >= 0 && s.Lights.DirCount <= s.Lights.DirLimit,
		"dir light count %d outside [0, %d]", s.Lights.DirCount, s.Lights.DirLimit)
	l := s.Lights
	check(l.ShadowMapInitialSlot >= MaterialUnits && l.ShadowMapInitialSlot+l.PointLimit+l.DirLimit <= TextureUnits,
		"shadow maps need units %d..%d, available %d..%d",
		l.ShadowMapInitialSlot, l.ShadowMapInitialSlot+l.PointLimit+l.DirLimit-1, MaterialUnits, TextureUnits-1)
	check(s.Lights.ShadowMapResolution > 0, "shadow map resolution must be positive")
	check(s.Lights.ShadowOpacity >= 0 && s.Lights.ShadowOpacity <= 1, "shadow opacity %v outside [0, 1]", s.Lights.ShadowOpacity)
	check(s.Bones.MaxBones > 0 && s.Bones.MaxModels > 0, "bone limits must be positive")
	check(s.Post.BloomK > 0 && s.Post.BloomK <= 1, "bloom_k %v outside (0, 1]", s.Post.BloomK)
	check(s.Post.DofK > 0 && s.Post.DofK <= 1, "dof_k %v outside (0, 1]", s.Post.DofK)
	for name, k := range map[string]Kernel{"bloom": s.Post.BloomKernel, "dof": s.Post.DofKernel, "coc": s.Post.CocKernel} {
		check(k.Radius > 0 && k.Sigma > 0, "%s kernel needs positive radius and sigma, got %d/%v", name, k.Radius, k.Sigma)
	}
	check(s.Post.Gamma > 0, "gamma must be positive")
	check(s.Camera.Near > 0 && s.Camera.Far > s.Camera.Near, "camera planes must satisfy 0 < near < far")
	check(s.Camera.FOV > 0 && s.Camera.FOV < 180, "camera fov %v outside (0, 180)", s.Camera.FOV)
	check(s.Animation.BlendFactor >= 0 && s.Animation.BlendFactor <= 1, "blend factor %v outside [0, 1]", s.Animation.BlendFactor)
	check(s.Animation.LampTick > 0, "lamp tick must be positive")

	return errors.Join(errs...)
}
