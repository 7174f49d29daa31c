// Package extenum holds option-list fixtures.
package extenum

import rt "github.com/seitarof/gen-ext/pkg/runtime"

// Direction is a compass heading.
type Direction string

const (
	North Direction = "N"
	//ext:default
	East  Direction = "E"
	South Direction = "S"
	// Deprecated: use East.
	West  Direction = "W"
)

func (d Direction) ToUnderlyingValue() string { return string(d) }

var _ rt.OptionList[string] = North

// Speed is an integer-backed option list.
type Speed int

const (
	Slow Speed = iota + 1
	Fast
	hidden
)

func (s Speed) ToUnderlyingValue() int { return int(s) }

// Fruit declares two defaults.
type Fruit string

const (
	//ext:default
	Apple Fruit = "apple"
	//ext:default
	Pear Fruit = "pear"
)

func (f Fruit) ToUnderlyingValue() string { return string(f) }

// Plain has constants but no accessor.
type Plain int

const Zero Plain = 0

// Empty has an accessor but no constants.
type Empty string

func (e Empty) ToUnderlyingValue() string { return string(e) }

// Level maps to names through a lookup table.
type Level int

const (
	Low Level = iota
	High
)

func (l Level) ToUnderlyingValue() string { return [...]string{"low", "high"}[l] }
