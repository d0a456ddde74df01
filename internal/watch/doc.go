// Package watch re-runs the synthesis pipeline whenever one of a set of
// input files changes. It is used to iterate on custom prototype tables
// and config files: each save produces a fresh design and a one-line
// summary of what moved relative to the previous run.
package watch
