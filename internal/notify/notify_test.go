package notify

import "testing"

func TestTranslate(t *testing.T) {
	tests := []struct {
		key  string
		args []any
		want string
	}{
		{"SCREENSHOT_SAVED", nil, "Screenshot saved"},
		{"DESIGN_LOADED", []any{3}, "Loaded design with 3 items"},
		{"DESIGN_SAVE_FAILED", []any{"offline"}, "Could not save design: offline"},
		{"NOT_A_KEY", nil, "NOT_A_KEY"},
		{"100% untranslated", nil, "100% untranslated"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := T(tt.key, tt.args...); got != tt.want {
				t.Errorf("T(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSetLanguage(t *testing.T) {
	t.Cleanup(func() { _ = SetLanguage("en") })
	if err := SetLanguage("de"); err != nil {
		t.Fatal(err)
	}
	if got := T("DESIGN_SAVED"); got != "Entwurf gespeichert" {
		t.Errorf("de DESIGN_SAVED = %q", got)
	}
	if err := SetLanguage("xx"); err == nil {
		t.Error("unknown language should fail")
	}
	if got := T("DESIGN_SAVED"); got != "Entwurf gespeichert" {
		t.Errorf("failed switch changed the language: %q", got)
	}
}

func TestQueueExpires(t *testing.T) {
	q := NewQueue()
	q.Info("a")
	q.Update(2)
	q.Error("b")
	q.Update(1.5)
	v := q.Visible()
	if len(v) != 1 || v[0].Text != "b" {
		t.Fatalf("visible = %+v, want only b", v)
	}
	q.Update(2)
	if len(q.Visible()) != 0 {
		t.Error("b should have expired")
	}
}

func TestQueueCapsAndDismiss(t *testing.T) {
	q := NewQueue()
	var ids []int
	for _, s := range []string{"1", "2", "3", "4", "5"} {
		ids = append(ids, q.Success(s))
	}
	v := q.Visible()
	if len(v) != MaxVisible || v[0].Text != "2" {
		t.Fatalf("visible = %+v, want oldest dropped", v)
	}
	q.Dismiss(ids[2])
	for _, n := range q.Visible() {
		if n.ID == ids[2] {
			t.Error("dismissed notification still visible")
		}
	}
}
