// Package decoration provides inline decorations and immutable decoration
// sets for the renderer.
//
// A decoration marks a document range with presentation attributes and
// carries an arbitrary spec payload that producers use to recognise their
// own decorations later. Sets are immutable: Add, Remove, and Map return new
// sets. Mapping a set through an edit drops decorations whose range
// collapses, so a decoration disappears once its text is deleted.
package decoration
