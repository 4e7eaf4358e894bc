// Package layout turns classified labels into filesystem paths.
//
// Builder sanitizes one label at a time and joins it under its parent,
// failing as soon as any level sanitizes to nothing so an empty folder name
// can never collapse silently into its parent.
package layout
