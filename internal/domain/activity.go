package domain

// DailyActivity holds the running buy/sell counters for one calendar date.
// Counters only ever increase; deleting the holding or trade that triggered
// an increment does not decrement them. The date is stored as "YYYY-MM-DD".
type DailyActivity struct {
	Date      string
	BuyCount  int
	SellCount int
}
