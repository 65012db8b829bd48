package prompt

import (
	"slices"
	"testing"
)

func choicesOf(labels ...string) []Choice {
	out := make([]Choice, len(labels))
	for i, l := range labels {
		out[i] = Choice{Label: l, Value: l}
	}
	return out
}

func TestCursor_UpDownInverse(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 6; n++ {
		for pos := range n {
			c := cursor{pos: pos, n: n}
			c.up()
			c.down()
			if c.pos != pos {
				t.Errorf("n=%d pos=%d: up then down = %d", n, pos, c.pos)
			}
			c.down()
			c.up()
			if c.pos != pos {
				t.Errorf("n=%d pos=%d: down then up = %d", n, pos, c.pos)
			}
		}
	}
}

func TestCursor_Wraps(t *testing.T) {
	t.Parallel()

	c := cursor{pos: 0, n: 3}
	c.up()
	if c.pos != 2 {
		t.Errorf("up from 0 = %d, want 2", c.pos)
	}
	c.down()
	if c.pos != 0 {
		t.Errorf("down from 2 = %d, want 0", c.pos)
	}
}

func TestMultiState_ToggleAllTwice(t *testing.T) {
	t.Parallel()

	choices := choicesOf("A", "B", "C")

	t.Run("from none", func(t *testing.T) {
		s := newMultiState(choices)
		s.toggleAll()
		if got := s.indices(); !slices.Equal(got, []int{0, 1, 2}) {
			t.Fatalf("after first toggleAll = %v", got)
		}
		s.toggleAll()
		if got := s.indices(); len(got) != 0 {
			t.Errorf("after second toggleAll = %v, want none", got)
		}
	})

	t.Run("from all", func(t *testing.T) {
		s := newMultiState(choices)
		s.toggleAll()
		s.toggleAll()
		s.toggleAll()
		if got := s.indices(); !slices.Equal(got, []int{0, 1, 2}) {
			t.Errorf("indices = %v, want all", got)
		}
	})

	t.Run("partial selects all", func(t *testing.T) {
		s := newMultiState(choices)
		s.toggle()
		s.toggleAll()
		if got := s.indices(); !slices.Equal(got, []int{0, 1, 2}) {
			t.Errorf("indices = %v, want all", got)
		}
	})
}

func TestMultiState_ValuesInListOrder(t *testing.T) {
	t.Parallel()

	choices := choicesOf("A", "B", "C")
	s := newMultiState(choices)
	s.pos = 2
	s.toggle()
	s.pos = 0
	s.toggle()

	if got := s.values(choices); !slices.Equal(got, []string{"A", "C"}) {
		t.Errorf("values = %v, want [A C]", got)
	}
}

func TestMultiState_SeedsFromChecked(t *testing.T) {
	t.Parallel()

	choices := choicesOf("A", "B", "C", "D")
	choices[1].Checked = true
	choices[3].Checked = true

	s := newMultiState(choices)
	if got := s.indices(); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("indices = %v, want [1 3]", got)
	}
	if s.pos != 0 {
		t.Errorf("cursor = %d, want 0", s.pos)
	}
}

func TestSingleState_StartsOnChecked(t *testing.T) {
	t.Parallel()

	choices := choicesOf("A", "B", "C")
	if s := newSingleState(choices); s.pos != 0 {
		t.Errorf("no checked row: cursor = %d, want 0", s.pos)
	}

	choices[2].Checked = true
	if s := newSingleState(choices); s.pos != 2 {
		t.Errorf("cursor = %d, want 2", s.pos)
	}
}
