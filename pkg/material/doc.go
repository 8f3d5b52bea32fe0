// Package material turns a host shading network into an ordered, positioned
// list of node records ready for Katana.
//
// The stages run in sequence:
//
//	ids, _ := material.Closure(scene, scene.Selection())     // upstream closure
//	records, _ := material.NewExtractor(scene, logger).ExtractAll(ids)
//	net, _ := material.NewNetwork(records)
//	tree, _ := material.BuildTree(net, material.SceneClassifier(scene), material.DefaultLayout())
//	placed := material.Serialize(tree, material.Resolve(tree))
//
// [BuildTree] unrolls the network from its roots, so a record read by
// several consumers occurs once under each. [Resolve] keeps the deepest
// level of every record and [Serialize] emits each record exactly once at
// that level. [Diff] decides per attribute whether a live value overrides
// the template default.
package material
