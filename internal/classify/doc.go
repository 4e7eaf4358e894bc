// Package classify decides where an audio file belongs in the library.
//
// Classify maps a tags.Metadata record to a Placement: the hierarchy category
// plus the ordered raw labels of every folder and the leaf file name. The
// music hierarchy is an ordered rule table (compilation, single, default
// album) evaluated top to bottom; audiobooks have their own hierarchy. Shared
// sub-rules build album labels ("2001 Title") and numbered track labels
// ("1-03 Title").
//
// Required fields are checked lazily in the order a branch needs them and the
// first absent field is reported as a *MissingFieldError. Classification is a
// pure function; sanitizing labels into path segments is left to the layout
// package.
package classify
