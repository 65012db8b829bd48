package prompt

import "sort"

// cursor is a row index that wraps modulo n.
type cursor struct {
	pos int
	n   int
}

func (c *cursor) up()   { c.pos = (c.pos - 1 + c.n) % c.n }
func (c *cursor) down() { c.pos = (c.pos + 1) % c.n }

// multiState is the checkbox model: a cursor and a set of checked rows.
type multiState struct {
	cursor
	selected map[int]bool
}

func newMultiState(choices []Choice) *multiState {
	s := &multiState{
		cursor:   cursor{n: len(choices)},
		selected: make(map[int]bool),
	}
	for i, c := range choices {
		if c.Checked {
			s.selected[i] = true
		}
	}
	return s
}

func (s *multiState) toggle() {
	if s.selected[s.pos] {
		delete(s.selected, s.pos)
	} else {
		s.selected[s.pos] = true
	}
}

// toggleAll clears the set when every row is checked and checks every row
// otherwise.
func (s *multiState) toggleAll() {
	if len(s.selected) == s.n {
		clear(s.selected)
		return
	}
	for i := range s.n {
		s.selected[i] = true
	}
}

// indices returns the checked rows in ascending order.
func (s *multiState) indices() []int {
	out := make([]int, 0, len(s.selected))
	for i := range s.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (s *multiState) values(choices []Choice) []string {
	idx := s.indices()
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, choices[i].Value)
	}
	return out
}

// singleState is the radio model: the cursor is the selection.
type singleState struct {
	cursor
}

// newSingleState starts on the first checked row, or row 0.
func newSingleState(choices []Choice) *singleState {
	s := &singleState{cursor: cursor{n: len(choices)}}
	for i, c := range choices {
		if c.Checked {
			s.pos = i
			break
		}
	}
	return s
}
