package services

import (
	"log/slog"

	"github.com/deploymenttheory/go-fileprobe/internal/logger"
)

func orNop(log *slog.Logger) *slog.Logger {
	if log == nil {
		return logger.Nop()
	}
	return log
}
