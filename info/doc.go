// Package info decodes the document information dictionary of a PDF.
//
// Text strings are converted to UTF-8 from PDFDocEncoding or, when they
// start with a byte order mark, from UTF-16 or UTF-8. Dates in the PDF
// "D:" format become time.Time values:
//
//	meta := info.FromDict(dict)
//	fmt.Println(meta.Title, meta.CreationDate)
//
// Entries other than the standard ones are kept in Metadata.Custom.
package info
