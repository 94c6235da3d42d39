package source

import "testing"

func TestLocatorLineColumn(t *testing.T) {
	text := []byte("abc\ndef\r\nghi")
	loc := NewLocator(text)

	cases := []struct {
		offset int
		line   int
		col    int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{4, 1, 0},
		{7, 1, 3},
		{9, 2, 0},
	}
	for _, c := range cases {
		pos := loc.Locate(c.offset)
		if pos.Line != c.line || pos.Column != c.col {
			t.Errorf("Locate(%d) = %+v, want line=%d col=%d", c.offset, pos, c.line, c.col)
		}
	}
}

func TestRefExcerpt(t *testing.T) {
	text := []byte("hello world")
	r := Ref{Origin: Input, Start: 6, End: 11, Text: text}
	if got := r.Excerpt(); got != "world" {
		t.Errorf("Excerpt() = %q, want %q", got, "world")
	}
}
