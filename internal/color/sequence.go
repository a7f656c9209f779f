package color

// DefaultSequence is used whenever a sequence is configured without colors.
var DefaultSequence = []Color{Red, Green, Blue, Yellow, Cyan, Magenta, White}

// Sequence cycles through a list of colors.
type Sequence struct {
	colors []Color
	index  int
}

func NewSequence(colors []Color) *Sequence {
	s := &Sequence{}
	s.SetColors(colors)
	return s
}

// SetColors replaces the list, keeping the cursor in range.
func (s *Sequence) SetColors(colors []Color) {
	if len(colors) == 0 {
		colors = DefaultSequence
	}
	s.colors = append([]Color(nil), colors...)
	s.index %= len(s.colors)
}

// Next advances the cursor and returns the color under it.
func (s *Sequence) Next() Color {
	s.index = (s.index + 1) % len(s.colors)
	return s.Current()
}

func (s *Sequence) Current() Color {
	return s.colors[s.index]
}

func (s *Sequence) Len() int {
	return len(s.colors)
}

func (s *Sequence) Colors() []Color {
	return append([]Color(nil), s.colors...)
}
