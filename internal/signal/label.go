package signal

import "fmt"

// Label is the categorical outcome for a single bar.
// The zero value is Hold so an unset label never reads as actionable.
type Label int

const (
	Hold Label = iota
	Buy
	Sell
)

func (l Label) String() string {
	switch l {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "hold"
	}
}

// MarshalJSON encodes the label as its lowercase string form.
func (l Label) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// ParseLabel converts a string to a Label.
func ParseLabel(s string) (Label, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	case "hold":
		return Hold, nil
	default:
		return Hold, fmt.Errorf("unknown label: %q", s)
	}
}
