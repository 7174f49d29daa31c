// Package notstruct marks a non-struct type as an extension.
package notstruct

//ext:extension
type Ext int
