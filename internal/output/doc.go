// Package output renders synthesized designs and sends them to their
// destination.
//
// The package is organized around three concerns:
//
//   - Encoding (serializer.go, report.go): YAML and JSON documents that
//     round-trip through design.Parse, and a styled text report for
//     terminals.
//
//   - Formats (registry.go): the name-to-encoder table behind --format.
//
//   - Writers (writer.go): Pluggable output destinations via the [Writer]
//     interface, with [StdoutWriter] and [FileWriter] implementations.
package output
