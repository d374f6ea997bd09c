package exception

import "errors"

// Ledger errors, roughly in the order the execution engine can hit them.
// The first four are business-rule rejections the caller can show to the
// end user; ErrStorage is a transient infrastructure failure.
var (
	ErrInvalidRequest     = errors.New("ledger: invalid request")
	ErrInsufficientFunds  = errors.New("ledger: insufficient balance")
	ErrInsufficientShares = errors.New("ledger: insufficient shares to sell")
	ErrNoSuchHolding      = errors.New("ledger: no holding for symbol")
	ErrStorage            = errors.New("ledger: storage failure")
)
