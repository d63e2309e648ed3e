package chance

import "sync"

// Sequence is a scripted Source for tests. Float64 cycles through floats;
// Intn cycles through ints, reduced modulo n.
type Sequence struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	fi, ii int
}

// Fixed returns a Sequence that always yields v from Float64 and 0 from Intn.
func Fixed(v float64) *Sequence {
	return &Sequence{floats: []float64{v}}
}

// Floats returns a Sequence cycling through vs.
func Floats(vs ...float64) *Sequence {
	return &Sequence{floats: vs}
}

// WithInts sets the values Intn cycles through.
func (s *Sequence) WithInts(vs ...int) *Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = vs
	s.ii = 0
	return s
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *Sequence) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 || n <= 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}
