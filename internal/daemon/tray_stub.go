//go:build !windows

package daemon

import (
	"errors"

	"go.uber.org/zap"
)

// TrayApp is unavailable outside Windows; the daemon runs in console mode
type TrayApp struct{}

// NewTrayApp always fails on this platform
func NewTrayApp(daemon *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return nil, errors.New("system tray is only supported on Windows")
}

func (t *TrayApp) Run() {}
func (t *TrayApp) Stop() {}
func (t *TrayApp) ShowNotification(title, message string) {}
