package model

import (
	"strings"
	"time"
)

// TxType classifies a Form 4 transaction by direction.
type TxType string

const (
	TxBuy   TxType = "BUY"   // open-market purchase (code P)
	TxSell  TxType = "SELL"  // open-market sale (code S)
	TxOther TxType = "OTHER" // awards, conversions, gifts, etc.
)

// Transaction is one normalized insider transaction extracted from a filing.
// Immutable once stored.
type Transaction struct {
	AccessionNo       string
	Issuer            string // ticker
	IssuerName        string
	InsiderID         string // CIK
	InsiderName       string
	InsiderTitle      string
	IsOfficer         bool
	IsDirector        bool
	IsTenPercentOwner bool
	Type              TxType
	Date              time.Time
	Shares            float64
	Price             float64
	FiledAt           time.Time
}

// Value is the dollar value of the transaction.
func (t *Transaction) Value() float64 {
	return t.Shares * t.Price
}

// Malformed reports whether required fields are missing. Malformed rows are
// excluded from clustering and scoring and surfaced as data-quality notes.
func (t *Transaction) Malformed() bool {
	return t.Shares <= 0 || t.Price <= 0 || t.Date.IsZero()
}

// csuiteKeywords match titles of top executives. A bare "officer" flag is not
// enough: backtests key the strongest buy signals on C-suite titles.
var csuiteKeywords = []string{"CEO", "CFO", "COO", "CTO", "CIO", "CMO", "President", "Chief"}

// IsCSuite reports whether the insider's title indicates a C-suite executive.
func (t *Transaction) IsCSuite() bool {
	if t.InsiderTitle == "" {
		return false
	}
	title := strings.ToLower(t.InsiderTitle)
	for _, kw := range csuiteKeywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
