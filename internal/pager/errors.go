package pager

import "errors"

// Sentinel errors for batch validation
var (
	// ErrBatchSize indicates a loader returned a batch that is not exactly one page
	ErrBatchSize = errors.New("batch size does not match page size")

	// ErrBatchNotContiguous indicates a batch does not continue the loaded sequence
	ErrBatchNotContiguous = errors.New("batch does not continue the item sequence")
)
