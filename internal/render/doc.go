// Package render turns an ordered lot path into a description of a row of
// boxes joined by arrows, and draws that description for terminals, HTML
// pages and Graphviz.
//
// A [View] is always drawable: besides the ready row it carries the two
// fallback states shown instead of a path, [StateEmpty] when the lot has no
// movement data and [StateFailed] when the trace could not be loaded.
package render
