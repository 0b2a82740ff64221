// Package loader parses the raw longitudinal survey export into typed
// observations. It recognizes the export's null tokens during parsing,
// types every variable column as numeric, and fails fast with a ParseError
// on any malformed row so no partial output can be produced downstream.
//
// Two input formats are supported: delimited UTF-8 text with a header row,
// and the vendor's xlsx workbook, from which the data sheet is discovered
// by header sniffing.
package loader
