package lighting

import (
	"fmt"

	"chess-scene/internal/config"
	"chess-scene/internal/graphics"
)

// Manager writes light uniforms into the color program and owns the shadow map texture
// units: point maps from PointSlot, dir maps right after the point limit.
type Manager struct {
	PointLimit int
	DirLimit   int
	PointSlot  int
	DirSlot    int

	ShadowOpacity float32
	DiskRadiusK   float32
	DiskRadiusMin float32
}

// NewManager lays out shadow slots from the lighting settings
func NewManager(cfg config.Lights) *Manager {
	return &Manager{
		PointLimit:    cfg.PointLimit,
		DirLimit:      cfg.DirLimit,
		PointSlot:     cfg.ShadowMapInitialSlot,
		DirSlot:       cfg.ShadowMapInitialSlot + cfg.PointLimit,
		ShadowOpacity: cfg.ShadowOpacity,
		DiskRadiusK:   cfg.DiskRadiusK,
		DiskRadiusMin: cfg.DiskRadiusMin,
	}
}

// PointMapSlot is the texture unit of point light i's cube map
func (m *Manager) PointMapSlot(i int) uint32 {
	return uint32(m.PointSlot + i)
}

// DirMapSlot is the texture unit of dir light i's depth map
func (m *Manager) DirMapSlot(i int) uint32 {
	return uint32(m.DirSlot + i)
}

func indexed(name string, i int) string {
	return fmt.Sprintf("%s[%d]", name, i)
}

// Configure writes everything that does not change per frame: counts, sampler units,
// color, attenuation, bias and the dir light matrices. p must be in use.
func (m *Manager) Configure(p *graphics.Program, points []*PointLamp, dirs []*DirLamp) error {
	if len(points) > m.PointLimit {
		return fmt.Errorf("%d point lights exceed the limit of %d", len(points), m.PointLimit)
	}
	if len(dirs) > m.DirLimit {
		return fmt.Errorf("%d dir lights exceed the limit of %d", len(dirs), m.DirLimit)
	}

	p.SetInt("pointLightCount", int32(len(points)))
	p.SetInt("dirLightCount", int32(len(dirs)))
	p.SetFloat("shadowOpacity", m.ShadowOpacity)
	p.SetFloat("diskRadiusK", m.DiskRadiusK)
	p.SetFloat("diskRadiusMin", m.DiskRadiusMin)

	// every array element gets its own unit so cube and 2D samplers never share one
	for i := 0; i < m.PointLimit; i++ {
		p.SetInt(indexed("pointShadowMaps", i), int32(m.PointMapSlot(i)))
	}
	for i := 0; i < m.DirLimit; i++ {
		p.SetInt(indexed("dirShadowMaps", i), int32(m.DirMapSlot(i)))
	}

	for i, l := range points {
		p.SetVec3(indexed("pointLightColor", i), l.Color)
		p.SetFloat(indexed("pointLightKc", i), l.Kc)
		p.SetFloat(indexed("pointLightKl", i), l.Kl)
		p.SetFloat(indexed("pointLightKq", i), l.Kq)
		p.SetFloat(indexed("pointLightFarPlane", i), l.Far)
		p.SetFloat(indexed("pointLightBias", i), l.Bias)
	}
	for i, l := range dirs {
		p.SetVec3(indexed("dirLightColor", i), l.Color)
		p.SetFloat(indexed("dirLightKc", i), l.Kc)
		p.SetFloat(indexed("dirLightKl", i), l.Kl)
		p.SetFloat(indexed("dirLightKq", i), l.Kq)
		p.SetFloat(indexed("dirLightMinBias", i), l.MinBias)
		p.SetFloat(indexed("dirLightMaxBias", i), l.MaxBias)
		p.SetMat4(indexed("dirLightMatrix", i), l.LightSpaceMatrix())
	}
	return nil
}

// WritePositions sends the current light positions. p must be in use.
func (m *Manager) WritePositions(p *graphics.Program, points []*PointLamp, dirs []*DirLamp) {
	for i, l := range points {
		p.SetVec3(indexed("pointLightPos", i), l.Position())
	}
	for i, l := range dirs {
		p.SetVec3(indexed("dirLightPos", i), l.Position)
	}
}

// BindShadowMaps binds every shadow map to its unit
func (m *Manager) BindShadowMaps(points []*PointLamp, dirs []*DirLamp) {
	for i, l := range points {
		if l.ShadowMap != nil {
			l.ShadowMap.Use(m.PointMapSlot(i))
		}
	}
	for i, l := range dirs {
		if l.ShadowMap != nil {
			l.ShadowMap.Use(m.DirMapSlot(i))
		}
	}
}

// WritePointShadow sends the position, far plane and face matrices of l to the point
// shadow program. p must be in use.
func WritePointShadow(p *graphics.Program, l *PointLamp) {
	p.SetVec3("lightPos", l.Position())
	p.SetFloat("farPlane", l.Far)
	for i, mat := range l.FaceMatrices() {
		p.SetMat4(indexed("shadowMatrices", i), mat)
	}
}
