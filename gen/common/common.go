// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package common holds the pieces shared by every output-format
// emitter (SystemVerilog, C, HTML): the settings struct each emitter's
// command-line flags feed into, the growing-text-buffer helper the
// emitters accumulate their output in, and the helper that flattens a
// Rifmux instance tree into the distinct RIF types it references.
package common

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TheClams/yarig/elab"
	"github.com/TheClams/yarig/gen/casing"
)

// Privacy controls whether an emitted declaration is restricted to
// its own compilation unit (Internal) or exported for other files to
// reference (Public).
type Privacy int

const (
	// Internal is the default: declarations are file-local.
	Internal Privacy = iota
	// Public declarations are exported for cross-file reference.
	Public
)

func (p Privacy) IsPublic() bool   { return p == Public }
func (p Privacy) IsInternal() bool { return p == Internal }

// BaseSetting holds the options common to every emitter: where to
// write output, the naming convention to render identifiers in, and a
// handful of format-agnostic toggles.
type BaseSetting struct {
	// Path is the output directory files are written under.
	Path string
	// Template is an optional path to a template file overriding the
	// emitter's built-in layout; empty means use the built-in one.
	Template string
	// Suffix is appended to a generated file's base name, before its
	// extension (e.g. "_regs" in "my_block_regs.sv").
	Suffix string
	// Casing selects the naming convention identifiers are rendered
	// in.
	Casing casing.Kind
	// Privacy selects whether top-level declarations are exported.
	Privacy Privacy
	// Compact drops blank separator lines between declarations when
	// set.
	Compact bool
	// GenInc lists the RIFs reachable from a Rifmux top that also get
	// their own per-RIF file ("*" for all of them); when empty, only
	// the Rifmux's own file is generated.
	GenInc []string
}

// Includes reports whether name is eligible for generation under
// GenInc: an empty GenInc means everything is eligible.
func (s BaseSetting) Includes(name string) bool {
	if len(s.GenInc) == 0 {
		return true
	}
	for _, n := range s.GenInc {
		if n == name {
			return true
		}
	}
	return false
}

// Base is the shared growing-output-buffer state every concrete
// emitter embeds: Txt accumulates the current file's content, Stash
// holds zero or more side buffers a multi-pass emitter swaps in and
// out of Txt while composing a declaration (e.g. SystemVerilog's
// separate hardware/software struct-field accumulators).
type Base struct {
	Setting BaseSetting
	Txt     bytes.Buffer
	Stash   []bytes.Buffer
}

// NewBase allocates a Base with nStash side buffers ready to use.
func NewBase(setting BaseSetting, nStash int) Base {
	return Base{Setting: setting, Stash: make([]bytes.Buffer, nStash)}
}

// Write appends s to Txt.
func (b *Base) Write(s string) { b.Txt.WriteString(s) }

// Writef appends a formatted string to Txt.
func (b *Base) Writef(format string, args ...any) { fmt.Fprintf(&b.Txt, format, args...) }

// PushStash appends s to side buffer i.
func (b *Base) PushStash(i int, s string) { b.Stash[i].WriteString(s) }

// PopStash drains and returns side buffer i's accumulated content.
func (b *Base) PopStash(i int) string {
	s := b.Stash[i].String()
	b.Stash[i].Reset()
	return s
}

// Save writes Txt's accumulated content to filename under Setting.Path,
// creating the directory if needed, then resets Txt for the next file.
func (b *Base) Save(filename string) error {
	if err := os.MkdirAll(b.Setting.Path, 0o755); err != nil {
		return err
	}
	path := filepath.Join(b.Setting.Path, filename)
	if err := os.WriteFile(path, b.Txt.Bytes(), 0o644); err != nil {
		return err
	}
	b.Txt.Reset()
	return nil
}

// RifList walks a Rifmux instance's component tree (recursing through
// nested Rifmux instances, skipping plain external ranges) and
// returns the distinct RIF instances found, one per type name in
// first-encounter order. A generator uses this to know which RIF
// packages/headers to emit once regardless of how many places
// instantiate them.
func RifList(top elab.Comp) []*elab.RifInst {
	seen := map[string]bool{}
	var out []*elab.RifInst
	var walk func(c elab.Comp)
	walk = func(c elab.Comp) {
		switch c.Kind {
		case elab.CompRif:
			if !seen[c.Rif.TypeName] {
				seen[c.Rif.TypeName] = true
				out = append(out, c.Rif)
			}
		case elab.CompRifmux:
			for _, sub := range c.Rifmux.Components {
				walk(sub.Inst)
			}
		}
	}
	walk(top)
	return out
}
