// Package greeter is a sample extension project.
package greeter

import rt "github.com/seitarof/gen-ext/pkg/runtime"

// Tone selects how greetings sound.
type Tone string

const (
	Warm Tone = "warm"
	//ext:default
	Neutral Tone = "neutral"
	Formal  Tone = "formal"
)

func (t Tone) ToUnderlyingValue() string { return string(t) }

// Greeter greets **people**.
//
//ext:extension icon=icon.png
type Greeter struct {
	volume float64
	tone   Tone
}

// Greeted fires after a greeting was sent.
//
//ext:event
func (g *Greeter) Greeted(message string) {}

// Greet builds a greeting.
//
//ext:function
func (g *Greeter) Greet(name string) string { return "hello " + name }

// Fetch loads a greeting asynchronously.
//
//ext:function
func (g *Greeter) Fetch(url string, done rt.Continuation[string]) {}

// Volume is the playback volume.
//
//ext:property
func (g *Greeter) Volume() float64 { return g.volume }

//ext:property
//ext:designer editorType=float defaultValue=0.5
func (g *Greeter) SetVolume(v float64) { g.volume = v }

// Tone of the greeting.
//
//ext:property
//ext:designer editorType=choices defaultValue=neutral editorArgs=warm,neutral,formal
func (g *Greeter) SetTone(tone Tone) { g.tone = tone }

// Play plays a sound asset.
//
//ext:function
//ext:asset param=file filter=mp3
func (g *Greeter) Play(file string) {}
