package shaders

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

//go:embed glsl/*
var embedded embed.FS

// Version is the GLSL version line every stage starts with
const Version = "#version 410 core"

const includeDirective = "#include"

// Embedded returns the GLSL sources compiled into the binary
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "glsl")
	if err != nil {
		panic(err)
	}
	return sub
}

// Overlay returns a file system that reads from dir first and falls back to the embedded sources.
// An empty dir yields the embedded sources alone.
func Overlay(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return overlayFS{primary: os.DirFS(dir), fallback: Embedded()}
}

type overlayFS struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.fallback.Open(name)
}

// Preprocess reads name from fsys, expands #include directives relative to the including
// file and prepends the version line and defines.
func Preprocess(fsys fs.FS, name string, defines []Define) (string, error) {
	var b strings.Builder
	b.WriteString(Version)
	b.WriteByte('\n')
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d.Name)
		if d.Value != "" {
			b.WriteByte(' ')
			b.WriteString(d.Value)
		}
		b.WriteByte('\n')
	}
	if err := expand(fsys, name, &b, nil); err != nil {
		return "", err
	}
	return b.String(), nil
}

func expand(fsys fs.FS, name string, b *strings.Builder, stack []string) error {
	for _, s := range stack {
		if s == name {
			return fmt.Errorf("include cycle: %s -> %s", strings.Join(stack, " -> "), name)
		}
	}
	stack = append(stack, name)

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read shader %s: %w", name, err)
	}

	sc := bufio.NewScanner(strings.NewReader(string(data)))
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		trimmed := strings.TrimSpace(text)
		if !strings.HasPrefix(trimmed, includeDirective) {
			b.WriteString(text)
			b.WriteByte('\n')
			continue
		}
		target := strings.Trim(strings.TrimSpace(strings.TrimPrefix(trimmed, includeDirective)), `"<>`)
		if target == "" {
			return fmt.Errorf("%s:%d: empty include", name, line)
		}
		if err := expand(fsys, path.Join(path.Dir(name), target), b, stack); err != nil {
			return err
		}
	}
	return sc.Err()
}
