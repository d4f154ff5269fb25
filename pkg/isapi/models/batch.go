package models

import (
	"fmt"

	"go.uber.org/multierr"
)

// BatchError attributes one failed batch item.
type BatchError struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

// BatchResult summarizes a best-effort batch mutation. Errors are in input
// order.
type BatchResult struct {
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Errors  []BatchError `json:"errors"`
}

// Err combines the per-item failures into one error, or nil when every item
// succeeded.
func (r BatchResult) Err() error {
	var err error
	for _, e := range r.Errors {
		err = multierr.Append(err, fmt.Errorf("%s: %s", e.Item, e.Error))
	}
	return err
}
