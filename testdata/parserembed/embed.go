// Package parserembed holds fixtures for promoted block methods.
package parserembed

type Base struct{}

//ext:event
func (b *Base) Ready() {}

//ext:function
func (b *Base) Name() string { return "base" }

//ext:function
func (b *Base) Stop() {}

//ext:property
func (b *Base) Label() string { return "" }

type Left struct{}

//ext:function
func (l *Left) Clash() {}

type Right struct{}

//ext:function
func (r *Right) Clash() {}

//ext:extension
type Ext struct {
	*Base
	Left
	Right

	// Label hides Base.Label.
	Label string
}

// Name shadows Base.Name.
//
//ext:function
func (e *Ext) Name() string { return "ext" }

//ext:function
func (e *Ext) Own() {}

// Stop hides Base.Stop without being a block.
func (e *Ext) Stop() {}
