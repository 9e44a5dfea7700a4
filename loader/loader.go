// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package loader resolves a starting RIF/Rifmux source file into the
// complete set of definitions it (transitively) references: it parses
// the file, follows every include and rif-instance reference to a
// sibling file in the same directory, and keeps going until nothing
// new is found.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/TheClams/yarig/ast"
	"github.com/TheClams/yarig/internal/yrerr"
	"github.com/TheClams/yarig/parser"
)

// TopKind identifies which kind of object a Source's designated top
// is: the first Rif or Rifmux declaration encountered while loading.
type TopKind int

const (
	TopNone TopKind = iota
	TopRif
	TopRifmux
)

// Source is the complete, resolved set of RIF and Rifmux definitions
// reachable from a starting file, plus a note of which one is the top
// to elaborate.
type Source struct {
	TopKind  TopKind
	TopName  string
	Rifs     map[string]*ast.Rif
	Rifmuxes map[string]*ast.Rifmux
}

func newSource() *Source {
	return &Source{
		Rifs:     map[string]*ast.Rif{},
		Rifmuxes: map[string]*ast.Rifmux{},
	}
}

// GetRif resolves name to a Rif, tolerating the rif_/_rif spelling
// variants a reference may use.
func (s *Source) GetRif(name string) (*ast.Rif, bool) {
	return Lookup(s.Rifs, name)
}

// GetRifmux resolves name to a Rifmux, tolerating the same rif_/_rif/
// rif_mux_/_rif_mux spelling variants Lookup tries.
func (s *Source) GetRifmux(name string) (*ast.Rifmux, bool) {
	return Lookup(s.Rifmuxes, name)
}

// Lookup tries name as given, then each of the four rif_/_rif/
// rif_mux_/_rif_mux spelling variants, mirroring the tolerant name
// matching the source generator applies when resolving a reference
// (include target, rifmux item type, CLI top name) to a parsed file.
// Exported so elab can apply the same tolerant matching when
// resolving references against a Source.
func Lookup[T any](dict map[string]T, name string) (T, bool) {
	if v, ok := dict[name]; ok {
		return v, true
	}
	for _, candidate := range []string{
		name + "_rif",
		name + "_rif_mux",
		"rif_" + name,
		"rif_mux_" + name,
	} {
		if v, ok := dict[candidate]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// refRifName returns the RIF name a reference names: a bare Rifmux
// item type is already just that name, while an include reference is
// a dotted "rif.page.reg" path whose first segment is the RIF name.
func refRifName(ref string) string {
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		return ref[:i]
	}
	return ref
}

// stripAffix removes a rif_/_rif/rifmux_/_rifmux prefix or suffix
// from a name, used to match a reference against a candidate file's
// stem.
func stripAffix(s string) string {
	switch {
	case strings.HasPrefix(s, "rif_"):
		return s[4:]
	case strings.HasSuffix(s, "_rif"):
		return s[:len(s)-4]
	case strings.HasPrefix(s, "rifmux_"):
		return s[7:]
	case strings.HasSuffix(s, "_rifmux"):
		return s[:len(s)-7]
	}
	return s
}

// Load parses path and every ".rif" sibling file (in the same
// directory) transitively referenced by it, via include directives
// and Rifmux item type names, returning the full resolved Source.
func Load(path string) (*Source, error) {
	src := newSource()
	refs, err := src.parseFile(path)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return src, nil
	}
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, yrerr.IoError(err)
	}
	files := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".rif" {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		files[stripAffix(stem)] = filepath.Join(dir, e.Name())
	}
	for len(refs) > 0 {
		next := map[string]struct{}{}
		for r := range refs {
			file, ok := files[stripAffix(refRifName(r))]
			if !ok {
				continue
			}
			more, err := src.parseFile(file)
			if err != nil {
				return nil, err
			}
			for m := range more {
				next[m] = struct{}{}
			}
		}
		refs = next
	}
	return src, nil
}

// parseFile parses a single file into src, recording its Rif/Rifmux
// result and returning the set of names it references.
func (s *Source) parseFile(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, yrerr.IoError(err)
	}
	res, err := parser.ParseFile(path, data)
	if err != nil {
		return nil, err
	}
	if res.Rif != nil {
		if s.TopKind == TopNone {
			s.TopKind = TopRif
			s.TopName = res.Rif.Name
		}
		s.Rifs[res.Rif.Name] = res.Rif
	}
	if res.Rifmux != nil {
		if s.TopKind == TopNone {
			s.TopKind = TopRifmux
			s.TopName = res.Rifmux.Name
		}
		s.Rifmuxes[res.Rifmux.Name] = res.Rifmux
	}
	refs := make(map[string]struct{}, len(res.Refs))
	for _, r := range res.Refs {
		refs[r] = struct{}{}
	}
	return refs, nil
}
