package cell

import "testing"

func TestListenerSeesLatestHandler(t *testing.T) {
	var got []string
	c := New(func(s string) { got = append(got, "first:"+s) })

	// The listener captures the cell, not the function.
	listener := func(s string) {
		if fn, ok := c.Get(); ok {
			fn(s)
		}
	}

	listener("a")
	c.Set(func(s string) { got = append(got, "second:"+s) })
	listener("b")
	c.Clear()
	listener("c")

	want := []string{"first:a", "second:b"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
