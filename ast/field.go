// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"

	"github.com/TheClams/yarig/expr"
	"github.com/TheClams/yarig/internal/yrerr"
)

// CounterKind selects the direction(s) a hardware counter field moves
// in.
type CounterKind int

const (
	CounterUp CounterKind = iota
	CounterDown
	CounterUpDown
)

// CounterInfo configures a field driven as a hardware counter: step
// sizes, saturation, clear and event-pulse behavior.
type CounterInfo struct {
	Kind     CounterKind
	IncrVal  int
	DecrVal  int
	Saturate bool
	Clear    bool
	Event    bool
}

func (c CounterInfo) IsUp() bool   { return c.Kind == CounterUp || c.Kind == CounterUpDown }
func (c CounterInfo) IsDown() bool { return c.Kind == CounterDown || c.Kind == CounterUpDown }

// FieldHwKindTag discriminates the hardware write-modifier variants of
// FieldHwKind.
type FieldHwKindTag int

const (
	HwReadOnly FieldHwKindTag = iota
	HwSet
	HwToggle
	HwClear
	HwWriteEn
	HwWriteEnL
	HwCounter
	HwInterrupt
)

// FieldHwKind is a field's hardware access modifier: plain read-only,
// one of the write-modifier shapes (each with an optional external
// signal name), a counter, or an interrupt source.
type FieldHwKind struct {
	Tag     FieldHwKindTag
	Signal  *string
	Counter CounterInfo
	Trigger InterruptTrigger
}

func (k FieldHwKind) HasWE() bool {
	return k.Tag == HwWriteEn || k.Tag == HwWriteEnL
}

func (k FieldHwKind) HasWriteMod() bool {
	switch k.Tag {
	case HwSet, HwToggle, HwClear, HwWriteEn, HwWriteEnL:
		return true
	}
	return false
}

func (k FieldHwKind) IsCounter() bool   { return k.Tag == HwCounter }
func (k FieldHwKind) IsInterrupt() bool { return k.Tag == HwInterrupt }

// Suffix is the default external-signal-name suffix used when no
// explicit signal name was given for a write-modifier kind.
func (k FieldHwKind) Suffix() string {
	if k.Signal != nil {
		return ""
	}
	switch k.Tag {
	case HwSet:
		return "_hwset"
	case HwToggle:
		return "_tgl"
	case HwClear:
		return "_hwclr"
	case HwWriteEn:
		return "_we"
	case HwWriteEnL:
		return "_wel"
	}
	return ""
}

// Comment is the human-readable description attached to the derived
// external signal when no explicit one was given.
func (k FieldHwKind) Comment(name string) string {
	switch k.Tag {
	case HwSet:
		return fmt.Sprintf("Pulse high to set %s", name)
	case HwToggle:
		return fmt.Sprintf("Pulse high to toggle %s", name)
	case HwClear:
		return fmt.Sprintf("Pulse high to clear %s", name)
	case HwWriteEn:
		return fmt.Sprintf("Pulse high to write %s", name)
	case HwWriteEnL:
		return fmt.Sprintf("Pulse low to write %s", name)
	}
	return ""
}

// FieldSwKindTag discriminates the software access variants of
// FieldSwKind.
type FieldSwKindTag int

const (
	SwReadWrite FieldSwKindTag = iota
	SwReadOnly
	SwWriteOnly
	SwReadClr
	SwW1Clr
	SwW0Clr
	SwW1Set
	SwW1Tgl
	SwW1Pulse
	SwPassword
)

// FieldSwKind is a field's software access kind. W1Pulse carries
// whether the pulse is delayed by one clock and whether the field is
// otherwise read-only; Password carries its PasswordInfo.
type FieldSwKind struct {
	Tag       FieldSwKindTag
	Delayed   bool
	ReadOnly  bool
	Password  PasswordInfo
}

func (k FieldSwKind) IsPassword() bool { return k.Tag == SwPassword }
func (k FieldSwKind) IsClr() bool {
	return k.Tag == SwReadClr || k.Tag == SwW1Clr || k.Tag == SwW0Clr
}
func (k FieldSwKind) IsSet() bool         { return k.Tag == SwW1Set }
func (k FieldSwKind) IsPulseComb() bool   { return k.Tag == SwW1Pulse && !k.Delayed }
func (k FieldSwKind) IsWriteOnly() bool {
	return k.Tag == SwWriteOnly || k.Tag == SwPassword || (k.Tag == SwW1Pulse && k.ReadOnly)
}

// PasswordInfo configures a password-lock field: it stores no value
// of its own but controls an internal lock signal.
type PasswordInfo struct {
	Once    *ResetVal
	Hold    *ResetVal
	Protect bool
}

// HasHold reports whether the password needs a persistent hold field
// alongside the one-shot unlock pulse.
func (p PasswordInfo) HasHold() bool {
	return p.Protect || (p.Once != nil && p.Hold != nil)
}

// Field is one bitfield of a register definition.
type Field struct {
	Name         string
	Pos          FieldPos
	Array        Width
	ArrayPosIncr int
	Reset        []ResetVal
	Description  Description
	EnumKind     EnumKind
	HwKind       []FieldHwKind
	SwKind       FieldSwKind
	Partial      struct {
		Start *int
		End   int
	}
	HwAcc      Access
	Clk        string
	ClkEn      ClkEn
	Clear      string
	Lock       Lock
	Visibility Visibility
	IntrDesc   *InterruptDesc
	Limit      Limit
	Optional   string
	Info       map[string]string
}

// NewField builds a field with the defaults the source parser applies
// before any per-field declarations (hw-kind, limits, clocking, ...)
// are layered on. The presence of an explicit software kind decides
// the field's default hardware access, mirroring the source rule:
// output-only software kinds (read-only/clr/set) default to a
// hardware-writable field, and read/write software kinds default to a
// hardware-readable one.
func NewField(name string, reset []ResetVal, pos FieldPos, swKind *FieldSwKind, array *Width, desc string) Field {
	f := Field{
		Name:        name,
		Pos:         pos,
		Description: NewDescription(desc),
		SwKind:      FieldSwKind{Tag: SwReadWrite},
		HwAcc:       AccessRO,
		Visibility:  VisibilityFull,
		Info:        map[string]string{},
	}
	if array != nil {
		f.Array = *array
	}
	if len(reset) == 0 {
		f.Reset = []ResetVal{ResetUnsignedValue(0)}
	} else {
		f.Reset = reset
	}
	if swKind != nil {
		f.SwKind = *swKind
		switch swKind.Tag {
		case SwReadOnly, SwReadClr, SwW1Clr, SwW0Clr, SwW1Set:
			f.HwAcc = AccessWO
		case SwReadWrite, SwWriteOnly, SwW1Tgl, SwW1Pulse:
			f.HwAcc = AccessRO
		case SwPassword:
			f.HwAcc = AccessNA
		}
	} else if len(reset) == 0 {
		f.SwKind = FieldSwKind{Tag: SwReadOnly}
		f.HwAcc = AccessWO
	} else {
		f.SwKind = FieldSwKind{Tag: SwReadWrite}
		f.HwAcc = AccessRO
	}
	return f
}

// SetHwKind appends a hardware modifier, rejecting any combination
// other than two write-modifier kinds (Set/Toggle/Clear/WriteEn/
// WriteEnL can stack; Counter/Interrupt/ReadOnly are exclusive).
func (f *Field) SetHwKind(line int, kind FieldHwKind) error {
	if len(f.HwKind) > 0 {
		prev := f.HwKind[len(f.HwKind)-1]
		if !(kind.HasWriteMod() && prev.HasWriteMod()) {
			return yrerr.FieldKindError(line, fmt.Sprintf("%v and %v", f.HwKind, kind))
		}
	}
	f.HwKind = append(f.HwKind, kind)
	return nil
}

// SetSwKind installs kind, applying its side effects: a W1Pulse kind
// forces the hardware access back to read-only and rejects any
// hardware modifier already present; a Password kind forces every
// reset value to 1 (the locked state).
func (f *Field) SetSwKind(line int, kind FieldSwKind) error {
	switch kind.Tag {
	case SwW1Pulse:
		f.HwAcc = AccessRO
		if len(f.HwKind) > 0 {
			return yrerr.FieldKindError(line, fmt.Sprintf("%v and %v", f.HwKind, kind))
		}
	case SwPassword:
		for i := range f.Reset {
			f.Reset[i] = ResetUnsignedValue(1)
		}
	}
	f.SwKind = kind
	return nil
}

// Signed converts every unsigned reset value to its signed
// counterpart, applied when a field is declared with a signed type.
func (f *Field) Signed() {
	for i, r := range f.Reset {
		if r.Kind == ResetUnsigned {
			f.Reset[i] = ResetVal{Kind: ResetSigned, Value: r.Value}
		}
	}
}

// SetIntr layers interrupt settings onto the field: a field with no
// hardware kind yet gets Interrupt(trigger), high-level by default; a
// field that already has one gets its first kind replaced by
// Interrupt(trigger) only when a trigger is given. The clear mode (if any) maps onto the matching
// software kind or an explicit hardware Clear modifier.
func (f *Field) SetIntr(value InterruptInfoField) {
	if len(f.HwKind) == 0 {
		trigger := TriggerHigh
		if value.Trigger != nil {
			trigger = *value.Trigger
		}
		f.HwKind = append(f.HwKind, FieldHwKind{Tag: HwInterrupt, Trigger: trigger})
	} else if value.Trigger != nil {
		f.HwKind[0] = FieldHwKind{Tag: HwInterrupt, Trigger: *value.Trigger}
	}
	if value.Clear != nil {
		switch *value.Clear {
		case ClrOnRead:
			f.SwKind = FieldSwKind{Tag: SwReadClr}
		case ClrOnWrite0:
			f.SwKind = FieldSwKind{Tag: SwW0Clr}
		case ClrOnWrite1:
			f.SwKind = FieldSwKind{Tag: SwW1Clr}
		case ClrByHw:
			f.HwKind = append(f.HwKind, FieldHwKind{Tag: HwClear})
		}
	}
}

// Width resolves the field's bit width.
func (f Field) Width(params *expr.ParamValues) (int, error) {
	return f.Pos.Width(params)
}

// AutoHwKind returns the implicit hardware modifier a clear/set-only
// software kind requires when none was declared explicitly: a
// multi-bit clear-kind field needs a write-enable, a single-bit one
// needs Set; a set-kind field needs Clear.
func (f Field) AutoHwKind(params *expr.ParamValues) (*FieldHwKind, error) {
	if len(f.HwKind) > 0 {
		return nil, nil
	}
	if f.SwKind.IsClr() {
		w, err := f.Width(params)
		if err != nil {
			return nil, err
		}
		if w > 1 {
			return &FieldHwKind{Tag: HwWriteEn}, nil
		}
		return &FieldHwKind{Tag: HwSet}, nil
	}
	if f.SwKind.IsSet() {
		return &FieldHwKind{Tag: HwClear}, nil
	}
	return nil, nil
}

func (f *Field) Hidden()   { f.Visibility = VisibilityHidden }
func (f *Field) Reserved() { f.Visibility = VisibilityReserved }

// DescIntrUpdate appends a line to one of the field's interrupt
// sub-descriptions (enable/mask/pending), lazily allocating IntrDesc.
func (f *Field) DescIntrUpdate(which InterruptRegKind, line string) {
	if f.IntrDesc == nil {
		f.IntrDesc = &InterruptDesc{}
	}
	switch which {
	case InterruptRegEnable:
		f.IntrDesc.Enable.Update(line)
	case InterruptRegMask:
		f.IntrDesc.Mask.Update(line)
	case InterruptRegPending:
		f.IntrDesc.Pending.Update(line)
	}
}

// LocalLock returns the name of a sibling-field lock, if any.
func (f Field) LocalLock() (string, bool) { return f.Lock.LocalName() }
