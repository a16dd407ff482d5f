package imagefilter

type Kind string

// MaxNameLength bounds a requested filter name, known or not, since it is
// recorded verbatim in the history.
const MaxNameLength = 64

const (
	Grayscale  Kind = "grayscale"
	Blur       Kind = "blur"
	Sharpen    Kind = "sharpen"
	Edge       Kind = "edge"
	Brightness Kind = "brightness"
	Contrast   Kind = "contrast"
	Sepia      Kind = "sepia"
	Negative   Kind = "negative"
)

var kinds = []Kind{Grayscale, Blur, Sharpen, Edge, Brightness, Contrast, Sepia, Negative}

var descriptions = map[Kind]string{
	Grayscale:  "Luminance only, stored as RGB",
	Blur:       "Gaussian blur, radius 15",
	Sharpen:    "Sharpen kernel applied 5 times",
	Edge:       "Edge detection with 3x contrast",
	Brightness: "Brightness x3",
	Contrast:   "Contrast x4",
	Sepia:      "Duotone from #704214 to #C0A080",
	Negative:   "Inverted colors",
}

// All returns the supported kinds in display order.
func All() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind matches s exactly against the known kinds. Anything else,
// including a differently cased known name, is returned as an unknown kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	return k, k.Valid()
}

func (k Kind) Valid() bool {
	_, ok := descriptions[k]
	return ok
}

func (k Kind) Description() string {
	return descriptions[k]
}

func (k Kind) String() string {
	return string(k)
}
