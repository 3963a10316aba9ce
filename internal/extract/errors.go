package extract

import "fmt"

// NotFoundError is returned when no occurrence of the block name followed by
// its separator and an opening brace exists in the source.
type NotFoundError struct {
	Block string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("block %q not found", e.Block)
}

// UnbalancedBracesError is returned when the input ends before the brace that
// opened the block is matched.
type UnbalancedBracesError struct {
	Block  string
	Offset int // byte offset of the opening brace
	Depth  int // braces still open at end of input
}

// Error implements the error interface for UnbalancedBracesError.
func (e *UnbalancedBracesError) Error() string {
	return fmt.Sprintf("block %q opened at offset %d is not closed (%d unmatched brace(s) at end of input)", e.Block, e.Offset, e.Depth)
}
