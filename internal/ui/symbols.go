package ui

// Status symbols printed when a spinner settles.
const (
	SymbolSuccess = "✓"
	SymbolFail    = "✗"
	SymbolPending = "○"
)
