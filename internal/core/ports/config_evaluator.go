package ports

import (
	"context"

	"go.trai.ch/pkgman/internal/core/domain"
)

// ConfigEvaluator defines the interface for turning a build script into a build graph.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_evaluator.go -destination=mocks/mock_config_evaluator.go -package=mocks
type ConfigEvaluator interface {
	// Evaluate runs the script at path and returns the validated graph it declared.
	Evaluate(ctx context.Context, path string) (*domain.BuildGraph, error)
}
