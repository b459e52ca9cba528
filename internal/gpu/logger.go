//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/fontstash"
)

// slogger returns the logger configured with fontstash.SetLogger.
// All logging in internal/gpu goes through this function.
func slogger() *slog.Logger { return fontstash.Logger() }
