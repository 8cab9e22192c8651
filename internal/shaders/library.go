package shaders

import (
	"fmt"
	"io/fs"
	"log/slog"

	"chess-scene/internal/graphics"
)

// Set maps program names to compiled programs
type Set map[string]*graphics.Program

// Delete releases every program in the set
func (s Set) Delete() {
	for _, p := range s {
		p.Delete()
	}
}

// Source resolves the stage sources of a program description
func Source(fsys fs.FS, d Desc) (graphics.ProgramSource, error) {
	var src graphics.ProgramSource
	var err error
	if src.Vertex, err = Preprocess(fsys, d.Vertex, d.Defines); err != nil {
		return src, err
	}
	if d.Geometry != "" {
		if src.Geometry, err = Preprocess(fsys, d.Geometry, d.Defines); err != nil {
			return src, err
		}
	}
	if src.Fragment, err = Preprocess(fsys, d.Fragment, d.Defines); err != nil {
		return src, err
	}
	return src, nil
}

// Compile builds every described program. On error nothing is leaked and the
// first failure is returned.
func Compile(fsys fs.FS, descs []Desc) (Set, error) {
	set := make(Set, len(descs))
	for _, d := range descs {
		src, err := Source(fsys, d)
		if err != nil {
			set.Delete()
			return nil, fmt.Errorf("program %s: %w", d.Name, err)
		}
		p, err := graphics.NewProgram(d.Name, src)
		if err != nil {
			set.Delete()
			return nil, err
		}
		p.BindUniformBlock(BonesBlock, BonesBinding)
		set[d.Name] = p
		slog.Debug("Compiled shader program", "program", d.Name)
	}
	return set, nil
}
