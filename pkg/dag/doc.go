// Package dag holds the connection graph of a shading network.
//
// Nodes are shader nodes keyed by name, edges run downstream from a source
// attribute to the attribute it drives. Unlike a general graph library the
// DAG keeps insertion order everywhere: exported documents must be
// reproducible run to run, and the walk order of the host decides the
// order of roots and consumers.
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "checker", Type: "PxrChecker"})
//	g.AddNode(dag.Node{ID: "surface", Type: "PxrSurface"})
//	g.AddEdge(dag.Edge{From: "checker", FromPort: "resultRGB", To: "surface", ToPort: "diffuseColor"})
//
// Rows hold the resolved level of each node once the layout has run (see
// [DAG.SetRows]); [CountCrossings] reports how many connections cross
// between neighbouring levels of that layout.
//
// Shading networks may contain feedback loops. [DAG.Validate] and
// [DAG.FindCycle] report them without rejecting the graph.
package dag
