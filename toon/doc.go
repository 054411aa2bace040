// Package toon encodes JSON-model values as TOON, a compact
// indentation-delimited text format, and decodes them back.
//
// A document is a sequence of lines indented by a fixed number of spaces per
// level. Objects are written one key per line:
//
//	name: Alice
//	address:
//	  city: NYC
//
// Arrays start with a header carrying the declared length, an optional '#'
// marker, the delimiter for tab or pipe, and the field list of tabular arrays.
// The header ends with ';'.
//
//	tags [3]; a,b,c
//	users [2]{id,name};
//	  1,Alice
//	  2,Bob
//	items [2];
//	  - sku: A1
//	    qty: 2
//	  - [2]; x,y
//
// Values are normalized into the Value tree with Normalize. FlattenToPath and
// ExpandFromPath convert between nested trees and flat path objects
// (a.b-0.c), which can be encoded with EncodeOptions.PathKeys to trade depth
// for longer keys.
//
// Encoders and decoders hold no shared state, so independent documents may be
// processed concurrently.
package toon
