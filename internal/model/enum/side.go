package enum

// Side is the direction of an executed trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) IsAvailable() bool {
	return s == SideBuy || s == SideSell
}
