// Package toon implements TOON (Token-Oriented Object Notation), a compact
// indentation- and table-based text form of JSON-like data designed to cost
// fewer LLM tokens than JSON.
//
// # Data Model
//
// Scalars: null, bool, int, float, string
// Containers: object (ordered keys), array
//
// Arrays have two lossless shapes: scalar arrays, written inline, and
// tables (lists of objects sharing one key set), written as a header plus
// one row per object.
//
// # Syntax
//
//	name: Ada
//	age: 30
//	address:
//	  city: London
//	tags[3]: math,poetry,engines
//	users[2]{id,name}:
//	  1,Alice
//	  2,Bob
//
// Root arrays drop the key: "[3]: a,b,c" or "[2]{id,name}:" plus rows.
//
// # Quoting
//
// Strings are written bare unless they would read back as something else:
// empty strings, padded strings, strings containing the delimiter, a colon,
// a bracket, a brace or a quote, control characters, and strings that look
// like numbers or the literals true, false and null. Quoted strings use
// backslash escapes for \ " \n \r \t.
//
// # Error Tolerance
//
// Parsing never aborts. Structural problems (bad indentation, header counts
// that do not match the lines that follow) replace the affected node with
// null and are reported in ParseResult.Errors; field-level problems such as
// an unterminated quote keep the raw text and are reported as warnings.
//
// Encode and Parse are pure functions; they keep no state between calls and
// are safe for concurrent use.
package toon
