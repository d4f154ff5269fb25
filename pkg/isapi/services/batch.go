package services

import (
	"context"

	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/logger"
)

// runBatch applies op to every item in order. A failing item is recorded and
// the remaining items are still attempted.
func runBatch[T any](ctx context.Context, log *logger.Logger, items []T, id func(T) string, op func(context.Context, T) error) models.BatchResult {
	result := models.BatchResult{
		Total:  len(items),
		Errors: []models.BatchError{},
	}

	for _, item := range items {
		if err := op(ctx, item); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, models.BatchError{Item: id(item), Error: err.Error()})
			log.Warn("services: batch item failed",
				"item", id(item),
				"error", err)
			continue
		}
		result.Success++
	}

	log.Debug("services: batch complete",
		"total", result.Total,
		"success", result.Success,
		"failed", result.Failed)

	return result
}
