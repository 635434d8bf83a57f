// Package conv converts column indices between Go's int and the uint32
// positions stored in presence bitmaps.
package conv
