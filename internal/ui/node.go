package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a single UI element: panel, label, etc. It has optional class and id for CSS matching,
// an offset or size in Bounds, and optional text for labels.
type Node struct {
	Type   string // "panel", "label", etc.
	Class  string // e.g. "inspector" for .inspector
	ID     string // e.g. "mode" for #mode
	Bounds rl.Rectangle
	Text   string
	// Placed is where the node was last drawn, in screen pixels.
	Placed rl.Rectangle
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}

// At returns n offset by (x, y) from its styled position.
func (n *Node) At(x, y float32) *Node {
	n.Bounds.X, n.Bounds.Y = x, y
	return n
}
