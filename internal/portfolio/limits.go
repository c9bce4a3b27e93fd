package portfolio

import "fmt"

// Advisory is the result of evaluating a daily activity count against its
// configured cap. The limiter never blocks: a reached or exceeded cap only
// sets Exceeded and a human-readable warning, and the caller decides whether
// to require a second explicit confirmation before proceeding.
type Advisory struct {
	Exceeded bool
	Warning  string
}

// EvaluateLimit compares the current count for an action kind against its
// soft cap. A max of zero or less disables the advisory entirely.
func EvaluateLimit(kind string, count, max int) Advisory {
	if max <= 0 || count < max {
		return Advisory{}
	}
	return Advisory{
		Exceeded: true,
		Warning:  fmt.Sprintf("daily %s limit reached (%d/%d)", kind, count, max),
	}
}
