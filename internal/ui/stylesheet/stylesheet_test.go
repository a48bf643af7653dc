package stylesheet

import (
	"image/color"
	"reflect"
	"testing"
)

const sample = `
/* HUD */
.panel, #side { background: rgba(0, 0, 0, 0.5); width: 200px; padding: 8 }
.panel .nested { color: red }
@media print { .panel { color: blue } }
.title { color: #ffcc00; border: 1px solid white; left: 50%; top: 12px; font-size: 24px }
.panel { width: 240px }
.hidden { display: none }
`

func TestParseRules(t *testing.T) {
	sheet, err := Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := sheet.Classes(), []string{"hidden", "panel", "title"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Classes = %q, want %q", got, want)
	}
	if len(sheet.Rules) != 4 {
		t.Fatalf("rules = %d, want 4", len(sheet.Rules))
	}
	if got := sheet.Rules[0].Selectors; !reflect.DeepEqual(got, []string{".panel", "#side"}) {
		t.Errorf("selectors = %q", got)
	}
}

func TestMatchLaterWins(t *testing.T) {
	sheet, err := Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	s := Resolve(sheet.Match("panel", ""))
	if s.Width != 240 || s.Padding != 8 {
		t.Errorf("panel = %+v", s)
	}
	if s.Background.A != 128 && s.Background.A != 127 {
		t.Errorf("background alpha = %d", s.Background.A)
	}
	if id := Resolve(sheet.Match("", "side")); id.Width != 200 {
		t.Errorf("#side width = %d, want 200", id.Width)
	}
}

func TestResolve(t *testing.T) {
	sheet, err := Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	s := Resolve(sheet.Match("title", ""))
	if s.Color != (color.RGBA{255, 204, 0, 255}) {
		t.Errorf("color = %v", s.Color)
	}
	if !s.HasBorder || s.Border != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("border = %v %v", s.HasBorder, s.Border)
	}
	if s.LeftPct != 50 || s.TopPct != -1 || s.Top != 12 || s.FontSize != 24 {
		t.Errorf("title = %+v", s)
	}
	if !Resolve(sheet.Match("hidden", "")).Hidden {
		t.Error("display none should hide")
	}
	if d := Resolve(sheet.Match("missing", "")); d != Default() {
		t.Errorf("unmatched = %+v, want default", d)
	}
}

func TestParseHelpers(t *testing.T) {
	tests := []struct {
		in    string
		px    int32
		pxOK  bool
		pct   int32
		pctOK bool
	}{
		{"12px", 12, true, 0, false},
		{" 7 ", 7, true, 0, false},
		{"40%", 0, false, 40, true},
		{"140%", 0, false, 0, false},
		{"auto", 0, false, 0, false},
	}
	for _, tt := range tests {
		px, ok := ParsePx(tt.in)
		if px != tt.px || ok != tt.pxOK {
			t.Errorf("ParsePx(%q) = %d, %v", tt.in, px, ok)
		}
		pct, ok := ParsePct(tt.in)
		if pct != tt.pct || ok != tt.pctOK {
			t.Errorf("ParsePct(%q) = %d, %v", tt.in, pct, ok)
		}
	}
	if _, ok := ParseColor("not-a-colour"); ok {
		t.Error("ParseColor accepted garbage")
	}
}
