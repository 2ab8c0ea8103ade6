package models

// StateVersion is the schema version written with every persisted state.
// Records without it (or older) are treated as legacy and upgraded on load.
const StateVersion = 2

// Kind tells a prize slot apart from a filler slot that yields a quote.
type Kind string

const (
	KindPrize Kind = "prize"
	KindPoem  Kind = "poem"
)

// Valid reports whether k is one of the known entry kinds.
func (k Kind) Valid() bool {
	return k == KindPrize || k == KindPoem
}

// Entry is a single slot of the draw sequence.
// Prizes and filler slots share this shape; only Type differs.
type Entry struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type Kind   `json:"type" yaml:"type"`
}

// DrawState is the whole persisted lottery record. There is exactly one per deployment.
type DrawState struct {
	Version          int      `json:"version"`
	CurrentDrawIndex int      `json:"currentDrawIndex"`
	DrawSequence     []Entry  `json:"drawSequence"`
	TotalDraws       int      `json:"totalDraws"`
	Prizes           []Entry  `json:"prizes"`
	Poems            []string `json:"poems"`
}

// Exhausted reports whether every slot of the sequence has been drawn.
func (s *DrawState) Exhausted() bool {
	return s.CurrentDrawIndex >= s.TotalDraws
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (s *DrawState) Clone() *DrawState {
	c := *s
	c.DrawSequence = append([]Entry(nil), s.DrawSequence...)
	c.Prizes = append([]Entry(nil), s.Prizes...)
	c.Poems = append([]string(nil), s.Poems...)
	return &c
}

// DrawResult is the outcome of a single draw.
type DrawResult struct {
	Type    Kind   `json:"type"`
	Result  string `json:"result"`
	Message string `json:"message"`
}

// Status is the public progress view.
type Status struct {
	DrawnCount   int  `json:"drawnCount"`
	TotalDraws   int  `json:"totalDraws"`
	AllDrawsUsed bool `json:"allDrawsUsed"`
}

// AdminInfo exposes the full sequence, future draws included.
type AdminInfo struct {
	CurrentDrawIndex int     `json:"currentDrawIndex"`
	TotalDraws       int     `json:"totalDraws"`
	DrawSequence     []Entry `json:"drawSequence"`
	Prizes           []Entry `json:"prizes"`
	AllDrawsUsed     bool    `json:"allDrawsUsed"`
}
