// Package doc provides the immutable block document the editor engine edits.
//
// A document is an ordered list of textblocks. Positions use a token model:
// every block contributes an opening token, its text bytes, and a closing
// token, so the first character of the first block sits at position 1.
//
//	d := doc.New(doc.Paragraph("hello"), doc.Paragraph("world"))
//	d.Size()                // 14
//	d.TextBetween(1, 6)     // "hello"
//
//	rp, _ := d.Resolve(3)
//	rp.InTextblock()        // true
//	rp.ParentOffset()       // 2
//
// Documents are values: every edit returns a new Doc and leaves the
// receiver untouched, which lets transactions keep the document before and
// after each step.
package doc
