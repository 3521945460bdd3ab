// Package cypher holds the text-level handling of generated Cypher queries.
//
// Validate is a substring allow/deny filter, not a parser: it lowercases the
// whole query and rejects it if any write keyword appears anywhere, including
// inside string literals or comments, and it requires "match" and "return"
// to appear somewhere. It can therefore over-reject (a scrap about "sunset"
// contains "set") and under-reject (procedures, LOAD CSV, and obfuscated
// keywords are not on the list). Callers must execute validated queries with
// a read-only session as the second line of defence.
//
// ExtractQuery pulls a query out of free-form model output, tolerating
// replies that ignore formatting instructions.
package cypher
