// Package broken declares blocks that fail classification.
package broken

// Broken has an unexported block.
//
//ext:extension
type Broken struct{}

//ext:function description="Hidden."
func (b *Broken) hidden() {}
