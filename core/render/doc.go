// Package render produces the static display document from a snapshot.
//
// Rendering is plain token substitution against a fixed template: every
// {{TOKEN}} is replaced with a value derived from the dataset, and any
// token still present afterwards fails the build. The transform is a pure
// function of the snapshot, which keeps builds reproducible and testable.
package render
