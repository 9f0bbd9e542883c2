package model

// Keyword is one auto-reply rule: inbound texts containing Keyword get
// Response sent back.
type Keyword struct {
	ID       int64  `json:"id"`
	Keyword  string `json:"keyword"`
	Response string `json:"response"`
}
