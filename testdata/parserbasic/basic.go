// Package parserbasic holds parser fixtures.
package parserbasic

import rt "github.com/seitarof/gen-ext/pkg/runtime"

// Mood is an option list.
type Mood string

const (
	Happy Mood = "happy"
	Sad   Mood = "sad"
)

func (m Mood) ToUnderlyingValue() string { return string(m) }

// Greeter says hello.
//
//ext:extension name=HelloGreeter icon=icon.png
type Greeter struct {
	volume float64
}

// Helper is not an extension.
type Helper struct{}

// Greeted fires after Greet.
//
//ext:event
func (g *Greeter) Greeted(name string) {}

//ext:function description="Greets someone."
//ext:options param=mood type=Mood
func (g *Greeter) Greet(name string, mood Mood) string { return name }

// Play plays a sound.
//
//ext:function
//ext:asset param=file filter=mp3,wav
func (g *Greeter) Play(file string, done rt.Continuation[bool]) {}

// Volume is the playback volume.
//
//ext:property
func (g *Greeter) Volume() float64 { return g.volume }

//ext:property
//ext:designer editorType=float defaultValue=0.5
func (g *Greeter) SetVolume(v float64) { g.volume = v }

// Deprecated: use Greet.
//
//ext:function
func (g *Greeter) Hello() {}

//ext:property name=Level userVisible=false
func (g *Greeter) CurrentLevel() int { return 0 }

// Reset is not a block.
func (g *Greeter) Reset() {}

func (h *Helper) Greet() {}

type (
	//ext:extension
	Second struct{}
)

//ext:function
func (s Second) Ping() {}
