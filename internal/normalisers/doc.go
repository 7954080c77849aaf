// Package normalisers provides implementations of the Extractor interface
// for various document formats. Each extractor knows how to turn the bytes
// of one format into plain text.
//
// Extractors are handed to the Normaliser service at startup; see Defaults.
package normalisers
