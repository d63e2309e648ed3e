// Package emotion implements the companion's affective state: a bounded
// set of concurrently active emotions that merge, interfere, and decay
// with wall-clock time.
package emotion

// Kind is one of the fixed emotion kinds. The zero value, None, is what a
// snapshot reports when nothing is active.
type Kind uint8

const (
	None Kind = iota
	Joy
	Sadness
	Anger
	Fear
	Surprise
	Disgust
	Curiosity
	Excitement
	Loneliness
	Contentment
)

var kindNames = [...]string{
	None:        "neutral",
	Joy:         "joy",
	Sadness:     "sadness",
	Anger:       "anger",
	Fear:        "fear",
	Surprise:    "surprise",
	Disgust:     "disgust",
	Curiosity:   "curiosity",
	Excitement:  "excitement",
	Loneliness:  "loneliness",
	Contentment: "contentment",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether k is a triggerable kind.
func (k Kind) Valid() bool {
	return k >= Joy && k <= Contentment
}

// Negative reports whether k is one of the distressing kinds.
func (k Kind) Negative() bool {
	switch k {
	case Sadness, Anger, Fear:
		return true
	}
	return false
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind maps a name onto a triggerable kind.
func ParseKind(name string) (Kind, bool) {
	for k := Joy; k <= Contentment; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return None, false
}

// Kinds returns every triggerable kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, int(Contentment))
	for k := Joy; k <= Contentment; k++ {
		out = append(out, k)
	}
	return out
}
