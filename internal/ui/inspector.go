package ui

import "fmt"

const inspectorRowHeight = 24

// Inspector is a left-side panel that shows the selected item: type, transform, colour and the
// distances to the walls. It owns its nodes and updates their text in AppendNodes.
type Inspector struct {
	panel *Node
	title *Node
	rows  [7]*Node
}

// NewInspector creates an Inspector with nodes styled by .inspector, .inspector-title and .inspector-row.
func NewInspector() *Inspector {
	in := &Inspector{
		panel: NewNode("panel", "inspector", "", ""),
		title: NewNode("label", "inspector-title", "", ""),
	}
	for i := range in.rows {
		in.rows[i] = NewNode("label", "inspector-row", "", "").At(0, float32(i*inspectorRowHeight))
	}
	return in
}

// Selection holds the data shown in the inspector. The game layer fills it; ui does not depend on scene.
type Selection struct {
	ID          string
	Type        string
	Position    [3]float32
	RotationDeg float32
	Scale       float32
	Color       string
	// Wall distances: left, right, back, front.
	Walls [4]float32
	Dragging bool
}

// AppendNodes appends inspector nodes to dst when sel is non-nil, after updating labels from sel.
func (in *Inspector) AppendNodes(dst []*Node, sel *Selection) []*Node {
	if sel == nil {
		return dst
	}
	in.title.Text = sel.Type
	if sel.Dragging {
		in.title.Text += " (moving)"
	}
	in.rows[0].Text = "Id: " + shortID(sel.ID)
	in.rows[1].Text = fmt.Sprintf("Position: %.2f, %.2f", sel.Position[0], sel.Position[2])
	in.rows[2].Text = fmt.Sprintf("Rotation: %.0f deg", sel.RotationDeg)
	in.rows[3].Text = fmt.Sprintf("Scale: %.2f", sel.Scale)
	in.rows[4].Text = "Colour: " + sel.Color
	in.rows[5].Text = fmt.Sprintf("Left %.2fm  Right %.2fm", sel.Walls[0], sel.Walls[1])
	in.rows[6].Text = fmt.Sprintf("Back %.2fm  Front %.2fm", sel.Walls[2], sel.Walls[3])
	dst = append(dst, in.panel, in.title)
	for _, r := range in.rows {
		dst = append(dst, r)
	}
	return dst
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
