package designer

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"room-designer/internal/commands"
	"room-designer/internal/editor"
	"room-designer/internal/minimap"
	"room-designer/internal/mode"
	"room-designer/internal/scene"
)

// Register adds the console commands that drive c to reg. Output goes to the controller log.
func (c *Controller) Register(reg *commands.Registry) {
	reg.Register("help", "", nil, func([]string) error {
		for _, line := range reg.Help() {
			c.log.Log(line)
		}
		return nil
	})

	reg.Register("add", "type", nil, func(args []string) error {
		if len(args) != 1 {
			return commands.ErrUsage
		}
		id := c.AddItem(args[0])
		c.log.Logf("added %s %s", args[0], id)
		return nil
	})

	reg.Register("select", "id|none", nil, func(args []string) error {
		if len(args) != 1 {
			return commands.ErrUsage
		}
		if args[0] == "none" {
			c.Deselect()
			return nil
		}
		if !c.Select(args[0]) {
			return fmt.Errorf("no item %s", args[0])
		}
		return nil
	})

	reg.Register("delete", "", nil, func([]string) error {
		if !c.DeleteSelected() {
			return fmt.Errorf("nothing selected")
		}
		return nil
	})

	reg.Register("list", "", nil, func([]string) error {
		items := c.scene.Items()
		if len(items) == 0 {
			c.log.Log("room is empty")
		}
		sel := c.scene.SelectedID()
		for _, it := range items {
			mark := " "
			if it.ID == sel {
				mark = "*"
			}
			c.log.Logf("%s %s %-10s (%.2f, %.2f) %s", mark, it.ID, it.Type, it.Position[0], it.Position[2], it.Color)
		}
		return nil
	})

	reg.Register("types", "", nil, func([]string) error {
		c.log.Log(strings.Join(c.catalog.Types(), ", "))
		return nil
	})

	reg.Register("mode", "edit|blueprint|tour", nil, func(args []string) error {
		if len(args) != 1 {
			return commands.ErrUsage
		}
		m, err := mode.Parse(args[0])
		if err != nil {
			return err
		}
		c.SetMode(m)
		return nil
	})

	reg.Register("gizmo", "translate|rotate|scale", nil, func(args []string) error {
		if len(args) != 1 {
			return commands.ErrUsage
		}
		var g mode.Gizmo
		switch args[0] {
		case "translate":
			g = mode.GizmoTranslate
		case "rotate":
			g = mode.GizmoRotate
		case "scale":
			g = mode.GizmoScale
		default:
			return commands.ErrUsage
		}
		if !c.editor.SetGizmo(g) {
			return fmt.Errorf("%s not available in %s", args[0], c.modes.Mode())
		}
		return nil
	})

	nudge := flag.NewFlagSet("nudge", flag.ContinueOnError)
	step := nudge.Float64("step", float64(editor.NudgeStep), "metres")
	reg.Register("nudge", "[-step m] x|z [+|-]", nudge, func(args []string) error {
		if len(args) < 1 || len(args) > 2 {
			*step = float64(editor.NudgeStep)
			return commands.ErrUsage
		}
		axis := editor.AxisX
		switch args[0] {
		case "x":
		case "z":
			axis = editor.AxisZ
		default:
			return commands.ErrUsage
		}
		d := float32(*step)
		*step = float64(editor.NudgeStep)
		if len(args) == 2 && args[1] == "-" {
			d = -d
		}
		return selectionOp(c.editor.Nudge(axis, d))
	})

	reg.Register("rotate", "degrees", nil, func(args []string) error {
		v, err := floatArg(args)
		if err != nil {
			return err
		}
		return selectionOp(c.editor.RotateY(v))
	})

	reg.Register("scale", "factor", nil, func(args []string) error {
		v, err := floatArg(args)
		if err != nil {
			return err
		}
		return selectionOp(c.editor.SetScale(v))
	})

	reg.Register("color", "css-color", nil, func(args []string) error {
		if len(args) != 1 {
			return commands.ErrUsage
		}
		return selectionOp(c.editor.SetColor(args[0]))
	})

	reg.Register("center", "", nil, func([]string) error {
		return selectionOp(c.editor.Center())
	})

	reg.Register("random", "", nil, func([]string) error {
		return selectionOp(c.editor.Randomize())
	})

	roomFlags := flag.NewFlagSet("room", flag.ContinueOnError)
	width := roomFlags.Float64("w", 0, "width in metres")
	depth := roomFlags.Float64("d", 0, "depth in metres")
	wall := roomFlags.String("wall", "", "wall colour")
	floor := roomFlags.String("floor", "", "floor colour")
	reg.Register("room", "[-w m] [-d m] [-wall c] [-floor c]", roomFlags, func([]string) error {
		r := c.scene.Room()
		if *width > 0 {
			r.Width = float32(*width)
		}
		if *depth > 0 {
			r.Depth = float32(*depth)
		}
		if *wall != "" {
			r.WallColor = *wall
		}
		if *floor != "" {
			r.FloorColor = *floor
		}
		*width, *depth, *wall, *floor = 0, 0, "", ""
		c.SetRoom(r)
		c.log.Logf("room %s", minimap.Label(c.scene.Room()))
		return nil
	})

	reg.Register("lighting", "day|golden|night", nil, func(args []string) error {
		if len(args) != 1 {
			return commands.ErrUsage
		}
		l, err := scene.ParseLightingMode(args[0])
		if err != nil {
			return err
		}
		r := c.scene.Room()
		r.Lighting = l
		c.SetRoom(r)
		return nil
	})

	reg.Register("measure", "", nil, func([]string) error {
		m, ok := c.editor.Measure()
		if !ok {
			return fmt.Errorf("nothing selected")
		}
		c.log.Logf("left %.2fm right %.2fm back %.2fm front %.2fm centre %.2fm", m.Left, m.Right, m.Back, m.Front, m.FromCenter)
		return nil
	})

	reg.Register("save", "[name]", nil, func(args []string) error {
		c.Save(strings.Join(args, " "))
		return nil
	})

	reg.Register("load", "", nil, func([]string) error {
		c.LoadLatest()
		return nil
	})

	reg.Register("screenshot", "", nil, func([]string) error {
		c.RequestScreenshot()
		return nil
	})

	reg.Register("minimap", "", nil, func([]string) error {
		c.log.Logf("minimap %s", onOff(c.ToggleMinimap()))
		return nil
	})

	reg.Register("furniture", "", nil, func([]string) error {
		for _, e := range c.Listing() {
			c.log.Logf("%s  %s (%s)", e.ID, e.Name, e.Type)
		}
		return nil
	})
}

func selectionOp(ok bool) error {
	if !ok {
		return fmt.Errorf("no editable selection")
	}
	return nil
}

func floatArg(args []string) (float32, error) {
	if len(args) != 1 {
		return 0, commands.ErrUsage
	}
	v, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", commands.ErrUsage, err)
	}
	return float32(v), nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
