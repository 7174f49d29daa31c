// Package asset declares an asset directive for a missing parameter.
package asset

//ext:extension
type Ext struct{}

//ext:function
//ext:asset param=missing
func (e *Ext) Load(path string) {}
