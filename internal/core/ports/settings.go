package ports

import "go.trai.ch/pkgman/internal/core/domain"

// SettingsLoader reads the tool settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=settings.go -destination=mocks/mock_settings.go -package=mocks
type SettingsLoader interface {
	// Load reads the settings file at path. A missing file yields the defaults.
	Load(path string) (domain.Settings, error)
}
