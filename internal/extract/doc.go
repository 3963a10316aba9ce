// Package extract pulls named, brace-delimited object literals out of
// JavaScript source text.
//
// # The scan
//
// A block is introduced by its name, an optional run of whitespace, a
// separator (":" for object keys, "=" for declarations) and an opening
// brace. From just after that brace the scanner counts nesting depth one
// byte at a time and stops at the brace that returns the depth to zero.
// Depth counting generalizes to arbitrary nesting, which fixed-depth
// pattern matching on "the next sibling key" does not.
//
// Braces that are not code are not counted. The lexer tracks single and
// double quoted strings (with backslash escapes), template literals (whose
// ${...} substitutions are code again) and both comment forms. Regular
// expression literals are not recognized; a brace or quote inside one will
// be read as code.
//
// Options{Naive: true} switches the tracking off and counts every brace.
//
// # Results
//
// The returned text is an owned copy of everything strictly between the two
// braces with surrounding whitespace trimmed. NormalizeIndent, Reindent and
// Render are cosmetic helpers used when the block is written back out as a
// standalone declaration.
package extract
