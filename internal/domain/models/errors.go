package models

import "fmt"

// StoreError wraps a persistence failure (read, write or parse).
// Callers degrade to empty/previous data instead of propagating it.
type StoreError struct {
	Op     string // "load" or "save"
	Symbol string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("series store %s %s: %v", e.Op, e.Symbol, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// FetchError wraps a remote candle fetch failure. A fetch may still return
// partial data alongside it; callers accept the partial batch and log.
type FetchError struct {
	Symbol   string
	Interval string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s %s: %v", e.Symbol, e.Interval, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
