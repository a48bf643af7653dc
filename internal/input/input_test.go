package input

import "testing"

func TestMapToAction(t *testing.T) {
	tests := []struct {
		code string
		want Action
	}{
		{"w", ActionForward},
		{"W", ActionForward},
		{"a", ActionLeft},
		{"s", ActionBackward},
		{"d", ActionRight},
		{"shift", ActionSprint},
		{"p", ActionScreenshot},
		{"m", ActionToggleMinimap},
		{"escape", ActionRelease},
		{"q", ActionNone},
	}
	for _, tt := range tests {
		if got := MapToAction(tt.code); got != tt.want {
			t.Errorf("MapToAction(%q) = %v, want %v", tt.code, ActionName(got), ActionName(tt.want))
		}
	}
}

func TestCancelledListenerNeverRuns(t *testing.T) {
	b := NewBus()
	var got []Action
	sub := b.Subscribe(func(ev Event) { got = append(got, ev.Action) })

	b.Dispatch(Event{Kind: KeyDown, Code: "w"})
	sub.Cancel()
	b.Dispatch(Event{Kind: KeyDown, Code: "s"})
	sub.Cancel()

	if len(got) != 1 || got[0] != ActionForward {
		t.Errorf("got %v, want only the event before Cancel", got)
	}
	if b.Listeners() != 0 {
		t.Errorf("Listeners = %d, want 0", b.Listeners())
	}
}

func TestCancelDuringDispatch(t *testing.T) {
	b := NewBus()
	var second *Subscription
	calls := 0
	b.Subscribe(func(Event) { second.Cancel() })
	second = b.Subscribe(func(Event) { calls++ })

	b.Dispatch(Event{Kind: Wheel, Delta: 1})
	if calls != 0 {
		t.Errorf("listener cancelled earlier in the same dispatch ran %d times", calls)
	}
}

func TestHeldKeysAndBlur(t *testing.T) {
	b := NewBus()
	b.Dispatch(Event{Kind: KeyDown, Code: "Shift"})
	b.Dispatch(Event{Kind: KeyDown, Code: "w"})
	b.Dispatch(Event{Kind: KeyUp, Code: "w"})
	if !b.Held("shift") || b.Held("w") {
		t.Errorf("held shift=%v w=%v, want true false", b.Held("shift"), b.Held("w"))
	}
	b.Dispatch(Event{Kind: Blur})
	if b.Held("shift") {
		t.Error("blur should release every key")
	}
}

func TestFocusLossBlursOnce(t *testing.T) {
	b := NewBus()
	blurs := 0
	b.Subscribe(func(ev Event) {
		if ev.Kind == Blur {
			blurs++
		}
	})
	var f Focus
	b.Dispatch(Event{Kind: KeyDown, Code: "w"})

	if f.Sync(b, true) {
		t.Error("focused sample should not blur")
	}
	if !f.Sync(b, false) || b.Held("w") {
		t.Fatal("losing focus should blur and release keys")
	}
	if f.Sync(b, false) || blurs != 1 {
		t.Errorf("blurs = %d, want 1 while unfocused", blurs)
	}
	f.Sync(b, true)
	f.Sync(b, false)
	if blurs != 2 {
		t.Errorf("blurs = %d, want a second blur after refocus", blurs)
	}
}
