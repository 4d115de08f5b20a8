/*
Package refpath provides a structured representation of the dotted reference
paths used to address entities and their properties inside a namespace tree.

The format is a dot-separated sequence of segments, optionally prefixed with
`@`, where every segment may carry an index, e.g. `@Assembly1.Line01.Length`
or `Profile.Samples[2]`.

All parsing and formatting of reference paths lives here so that lookup,
expression parsing and diagnostics agree on a single syntax.
*/
package refpath
