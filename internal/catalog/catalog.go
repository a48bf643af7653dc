// Package catalog holds the furniture types the designer can place: their size, part geometry
// and default colour, plus the entries offered in the add-furniture sidebar.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"room-designer/internal/geom"
	"room-designer/internal/scene"
)

// DefaultFile is the embedded definitions file name; a file of the same name in the override
// directory wins.
const DefaultFile = "furniture.yaml"

//go:embed defs/*.yaml
var defsFS embed.FS

// ErrUnknownType is returned by Lookup for a type with no definition.
var ErrUnknownType = errors.New("catalog: unknown furniture type")

// Part is one box of an item's geometry, in fractions of the item size.
type Part struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// Def describes a furniture type.
type Def struct {
	Type     string     `yaml:"type"`
	Size     [3]float32 `yaml:"size"`
	Color    string     `yaml:"color"`
	Footing  float32    `yaml:"footing"`
	Emissive bool       `yaml:"emissive"`
	Parts    []Part     `yaml:"parts"`
}

// Entry is a catalog listing. Only Type matters to the scene; the rest is passed through.
type Entry struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	ModelRef string `json:"modelUrl,omitempty" yaml:"model_url"`
	Preview  string `json:"image,omitempty" yaml:"image"`
}

type file struct {
	Types   []Def   `yaml:"types"`
	Entries []Entry `yaml:"entries"`
}

// Catalog is an immutable set of definitions. Reloads build a new one.
type Catalog struct {
	defs    map[string]Def
	entries []Entry
}

var genericDef = Def{Size: [3]float32{0.5, 0.5, 0.5}, Color: "orange"}

// Parse decodes a definitions file.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	c := &Catalog{defs: make(map[string]Def, len(f.Types)), entries: f.Entries}
	for _, d := range f.Types {
		if d.Type == "" {
			return nil, fmt.Errorf("catalog: parse: definition without type")
		}
		for i := range d.Size {
			if d.Size[i] <= 0 {
				d.Size[i] = genericDef.Size[i]
			}
		}
		if len(d.Parts) == 0 {
			d.Parts = []Part{{Min: [3]float32{-0.5, 0, -0.5}, Max: [3]float32{0.5, 1, 0.5}}}
		}
		c.defs[d.Type] = d
	}
	return c, nil
}

// Read returns the named definitions file, preferring dir on disk over the embedded copy.
func Read(dir, name string) ([]byte, error) {
	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			return data, nil
		}
	}
	return defsFS.ReadFile("defs/" + name)
}

// Load reads and parses the default definitions, honouring an override directory.
func Load(dir string) (*Catalog, error) {
	data, err := Read(dir, DefaultFile)
	if err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", DefaultFile, err)
	}
	return Parse(data)
}

// Lookup returns the definition for typ.
func (c *Catalog) Lookup(typ string) (Def, error) {
	d, ok := c.defs[typ]
	if !ok {
		return Def{}, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return d, nil
}

// Def returns the definition for typ, or a half-metre box for unknown types.
func (c *Catalog) Def(typ string) Def {
	if d, err := c.Lookup(typ); err == nil {
		return d
	}
	d := genericDef
	d.Type = typ
	d.Parts = []Part{{Min: [3]float32{-0.5, 0, -0.5}, Max: [3]float32{0.5, 1, 0.5}}}
	return d
}

// Defaults adapts the catalog to scene.DefaultsFunc.
func (c *Catalog) Defaults(typ string) scene.Defaults {
	d, err := c.Lookup(typ)
	if err != nil {
		return scene.FallbackDefaults(typ)
	}
	return scene.Defaults{Color: d.Color, Footing: d.Footing}
}

// Types returns the defined type names, sorted.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.defs))
	for t := range c.defs {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Entries returns the seed listing in file order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Boxes returns the world-space boxes of the item's parts. Rotation about Y is applied to each part
// centre and the part extents are re-projected onto the world axes.
func (d Def) Boxes(it scene.Item) []geom.AABB {
	size := mgl32.Vec3{d.Size[0] * it.Scale[0], d.Size[1] * it.Scale[1], d.Size[2] * it.Scale[2]}
	yaw := it.Yaw()
	out := make([]geom.AABB, 0, len(d.Parts))
	for _, p := range d.Parts {
		lmin := mgl32.Vec3{p.Min[0] * size[0], p.Min[1] * size[1], p.Min[2] * size[2]}
		lmax := mgl32.Vec3{p.Max[0] * size[0], p.Max[1] * size[1], p.Max[2] * size[2]}
		c := geom.RotateY(lmin.Add(lmax).Mul(0.5), yaw)
		half := lmax.Sub(lmin).Mul(0.5)
		hx, hz := geom.FootprintHalf(half[0], half[2], yaw)
		out = append(out, geom.BoxAt(it.Position.Add(c), mgl32.Vec3{hx, half[1], hz}))
	}
	return out
}

// Bounds is the union of Boxes.
func (d Def) Bounds(it scene.Item) geom.AABB {
	boxes := d.Boxes(it)
	if len(boxes) == 0 {
		return geom.AABB{Min: it.Position, Max: it.Position}
	}
	b := boxes[0]
	for _, o := range boxes[1:] {
		b = b.Union(o)
	}
	return b
}
