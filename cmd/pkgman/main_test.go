package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pkgman/internal/app"
	"go.trai.ch/pkgman/internal/core/domain"
	"go.trai.ch/pkgman/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func components(t *testing.T) (*app.Components, *mocks.MockLogger, *mocks.MockSettingsLoader) {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	settings := mocks.NewMockSettingsLoader(ctrl)
	telemetry := mocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().Close().Return(nil)

	application := app.New(app.Deps{Settings: settings, Logger: log})
	return &app.Components{App: application, Logger: log, Telemetry: telemetry}, log, settings
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	c, _, _ := components(t)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, func(context.Context) (*app.Components, error) {
		return c, nil
	})
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, func(context.Context) (*app.Components, error) {
		return nil, errors.New("init failed")
	})

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	c, log, settings := components(t)
	t.Chdir(t.TempDir())

	settings.EXPECT().Load("pkgman.yaml").Return(domain.Settings{}, domain.ErrInvalidSettings)
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrInvalidSettings)
	})

	exitCode := run(context.Background(), []string{"build"}, new(bytes.Buffer), func(context.Context) (*app.Components, error) {
		return c, nil
	})
	assert.Equal(t, 1, exitCode)
}
