// Package stylesheet parses the HUD stylesheet: .class and #id rules with flat declarations.
package stylesheet

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Rule is one ruleset. A rule with several comma separated selectors applies to each of them.
type Rule struct {
	Selectors []string
	Props     map[string]string
}

// Sheet is a list of rules. Later rules override earlier ones.
type Sheet struct {
	Rules []Rule
}

// Parse reads src. Rules whose selectors are not a bare .class or #id are skipped, as are at-rules.
func Parse(src string) (*Sheet, error) {
	p := css.NewParser(parse.NewInputString(src), false)
	sheet := &Sheet{}
	var cur *Rule
	depth := 0
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("stylesheet: %w", err)
			}
			return sheet, nil
		case css.BeginAtRuleGrammar:
			depth++
		case css.EndAtRuleGrammar:
			depth--
		case css.BeginRulesetGrammar:
			if depth > 0 {
				continue
			}
			sels := selectors(join(p.Values()))
			if len(sels) == 0 {
				continue
			}
			cur = &Rule{Selectors: sels, Props: make(map[string]string)}
		case css.DeclarationGrammar:
			if cur == nil {
				continue
			}
			cur.Props[strings.ToLower(string(data))] = strings.TrimSpace(join(p.Values()))
		case css.EndRulesetGrammar:
			if cur != nil {
				sheet.Rules = append(sheet.Rules, *cur)
				cur = nil
			}
		}
	}
}

// join rebuilds a value from its tokens, keeping adjacent words apart.
func join(tokens []css.Token) string {
	var b strings.Builder
	prevWord := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			b.WriteByte(' ')
			prevWord = false
			continue
		}
		word := isWord(t.TokenType)
		if word && prevWord {
			b.WriteByte(' ')
		}
		b.Write(t.Data)
		prevWord = word
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isWord(tt css.TokenType) bool {
	switch tt {
	case css.IdentToken, css.HashToken, css.NumberToken, css.DimensionToken, css.PercentageToken:
		return true
	}
	return false
}

func selectors(s string) []string {
	var out []string
	for _, sel := range strings.Split(s, ",") {
		sel = strings.TrimSpace(sel)
		if len(sel) < 2 || (sel[0] != '.' && sel[0] != '#') || strings.ContainsAny(sel[1:], " .#:>[") {
			continue
		}
		out = append(out, sel)
	}
	return out
}

// Match merges the properties of every rule selecting class or id, in sheet order.
func (s *Sheet) Match(class, id string) map[string]string {
	merged := make(map[string]string)
	if s == nil {
		return merged
	}
	for _, r := range s.Rules {
		for _, sel := range r.Selectors {
			if (class != "" && sel == "."+class) || (id != "" && sel == "#"+id) {
				for k, v := range r.Props {
					merged[k] = v
				}
				break
			}
		}
	}
	return merged
}

// Classes lists the class selectors the sheet defines, sorted.
func (s *Sheet) Classes() []string {
	seen := make(map[string]bool)
	for _, r := range s.Rules {
		for _, sel := range r.Selectors {
			if sel[0] == '.' {
				seen[sel[1:]] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Style is a resolved rule. LeftPct and TopPct are -1 when the position is given in pixels.
type Style struct {
	Background color.RGBA
	Color      color.RGBA
	Border     color.RGBA
	HasBorder  bool
	Width      int32
	Height     int32
	Left       int32
	Top        int32
	LeftPct    int32
	TopPct     int32
	Padding    int32
	FontSize   int32
	Hidden     bool
}

// Default is a transparent box with white 20px text and 4px padding.
func Default() Style {
	return Style{
		Color:    color.RGBA{255, 255, 255, 255},
		Border:   color.RGBA{0, 0, 0, 255},
		LeftPct:  -1,
		TopPct:   -1,
		Padding:  4,
		FontSize: 20,
	}
}

// Resolve builds a Style from merged properties. Unparseable values keep the default.
func Resolve(props map[string]string) Style {
	out := Default()
	for k, v := range props {
		switch k {
		case "background", "background-color":
			if c, ok := ParseColor(v); ok {
				out.Background = c
			}
		case "color":
			if c, ok := ParseColor(v); ok {
				out.Color = c
			}
		case "border", "border-color":
			if c, ok := ParseColor(lastField(v)); ok {
				out.Border = c
				out.HasBorder = true
			}
		case "width":
			setPx(&out.Width, v)
		case "height":
			setPx(&out.Height, v)
		case "padding":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Padding = n
			}
		case "font-size":
			if n, ok := ParsePx(v); ok && n > 0 {
				out.FontSize = n
			}
		case "left":
			if pct, ok := ParsePct(v); ok {
				out.LeftPct = pct
			} else {
				setPx(&out.Left, v)
			}
		case "top":
			if pct, ok := ParsePct(v); ok {
				out.TopPct = pct
			} else {
				setPx(&out.Top, v)
			}
		case "display":
			out.Hidden = strings.TrimSpace(v) == "none"
		}
	}
	return out
}

// lastField picks the colour out of shorthand like "1px solid #333".
func lastField(v string) string {
	f := strings.Fields(v)
	if len(f) == 0 {
		return v
	}
	return f[len(f)-1]
}

func setPx(dst *int32, v string) {
	if n, ok := ParsePx(v); ok {
		*dst = n
	}
}

// ParseColor accepts any CSS colour: names, hex, rgb(), hsl().
func ParseColor(s string) (color.RGBA, bool) {
	c, err := csscolorparser.Parse(strings.TrimSpace(s))
	if err != nil {
		return color.RGBA{}, false
	}
	r, g, b, a := c.RGBA255()
	return color.RGBA{R: r, G: g, B: b, A: a}, true
}

// ParsePx parses a whole number with an optional px suffix.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" with N in [0, 100].
func ParsePct(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}
