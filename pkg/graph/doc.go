// Package graph provides the JSON forms of a material network.
//
// [Graph] is the connection graph itself, convertible to and from a
// [dag.DAG]. [Layout] is the report of an export run: the placement of
// each emitted node, its connections and overrides, and the network's
// terminal, orphaned and shader-output sets. The CLI's inspect --json
// prints a Layout.
//
// Both formats keep walk order so the output of two runs over the same
// scene is byte-identical.
//
// [dag.DAG]: github.com/matzehuels/m2k/pkg/dag
package graph
