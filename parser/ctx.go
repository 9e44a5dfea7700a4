// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package parser

// ctxTag names one of the parser's line-production contexts: either a
// frame that can sit on the indentation stack (Rif, Page, Field, ...)
// or the matched-keyword result of a context's attribute dispatcher
// (AddrWidth, HwClock, ...), exactly as the source grammar reuses one
// enum for both roles.
type ctxTag int

const (
	ctxTop ctxTag = iota
	ctxRif
	ctxRifmux
	ctxDescription
	ctxParameters
	ctxGenerics
	ctxInfo
	ctxInterface
	ctxAddrWidth
	ctxDataWidth
	ctxSwClock
	ctxSwClkEn
	ctxSwReset
	ctxSwClear
	ctxHwClock
	ctxHwClkEn
	ctxHwReset
	ctxHwClear
	ctxSuffixPkg
	ctxItem // Name: the declared item's name (page, field, rifmux item...)
	ctxBaseAddress
	ctxRegisters
	ctxInstances
	ctxRegInst
	ctxOptional
	ctxExternal
	ctxExternalDone
	ctxInclude
	ctxRegDecl
	ctxDescIntrEnable
	ctxDescIntrMask
	ctxDescIntrPending
	ctxPathStart // Name: interrupt group name prefixing a dotted description key
	ctxRegPulseWr
	ctxRegPulseRd
	ctxRegPulseAcc
	ctxInterrupt
	ctxInterruptAlt
	ctxHidden
	ctxReserved
	ctxDisabled
	ctxField
	ctxHwAccess
	ctxHwSet
	ctxHwClr
	ctxHwTgl
	ctxHwLock
	ctxPulse
	ctxToggle
	ctxPassword
	ctxSwSet
	ctxSigned
	ctxHwWe
	ctxHwWel
	ctxCounter
	ctxPartial
	ctxArrayPosIncr
	ctxArrayPartial
	ctxEnum
	ctxLimit
	ctxSuffix
	ctxRifmuxMap
	ctxRifmuxGroup
	ctxRifmuxTop
	ctxRegIndex   // Index: array index of an overridden register instance
	ctxFieldIndex // Name+Index: overridden field name and its array index
	ctxRifInst
)

// ctxKind is the tagged result of a keyword dispatcher, carrying
// whichever payload its tag needs.
type ctxKind struct {
	Tag   ctxTag
	Name  string
	Index int
}

func ck(tag ctxTag) ctxKind                    { return ctxKind{Tag: tag} }
func ckItem(name string) ctxKind               { return ctxKind{Tag: ctxItem, Name: name} }
func ckPathStart(name string) ctxKind          { return ctxKind{Tag: ctxPathStart, Name: name} }
func ckRegIndex(i int) ctxKind                 { return ctxKind{Tag: ctxRegIndex, Index: i} }
func ckFieldIndex(name string, i int) ctxKind  { return ctxKind{Tag: ctxFieldIndex, Name: name, Index: i} }

// Frame is one entry of the indentation-driven context stack: the
// context active at and below Column's indentation.
type Frame struct {
	Kind   ctxKind
	Column int
}
