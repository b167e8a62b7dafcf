// Package graph defines the scene graph for donutdate.
// The scene graph is a tree of groups and mesh-bearing nodes (text, torus,
// box), each carrying a local transform. World matrices and local bounding
// boxes are cached on the nodes; everything else is plain data produced by
// script evaluation.
package graph
