// Package webclip extracts article content from arbitrary web pages and
// converts it into a canonical AST that can be serialized to Markdown,
// while cataloguing images, formulas, and embeds in an out-of-band asset
// manifest referenced by stable identifiers.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, readability/, sqlite/).
package webclip
