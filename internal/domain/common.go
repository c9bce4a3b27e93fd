package domain

// ActionKind distinguishes the two counted portfolio actions (BUY or SELL).
type ActionKind string

const (
	ActionBuy  ActionKind = "BUY"
	ActionSell ActionKind = "SELL"
)

// CapitalTxType represents the direction of a capital adjustment.
type CapitalTxType string

const (
	CapitalAdd      CapitalTxType = "ADD"
	CapitalWithdraw CapitalTxType = "WITHDRAW"
)

// MatchPolicy selects the lot consumption order when liquidating a position.
type MatchPolicy string

const (
	// MatchFIFO consumes the oldest lots first.
	MatchFIFO MatchPolicy = "FIFO"
	// MatchLIFO consumes the newest lots first. This is the active policy
	// for the primary trading rule; FIFO is retained as an alternate utility.
	MatchLIFO MatchPolicy = "LIFO"
)
