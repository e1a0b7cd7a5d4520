package app

import (
	"fmt"
	"log/slog"

	"aiready-action/internal/analyzer"
)

func logSummary(logger *slog.Logger, r analyzer.Result) {
	status := "❌ FAILED"
	if r.Passed {
		status = "✅ PASSED"
	}
	logger.Info("")
	logger.Info("📊 AIReady Results:")
	logger.Info(fmt.Sprintf("   Score: %d/100", r.Score))
	logger.Info(fmt.Sprintf("   Issues: %d", r.Issues))
	logger.Info(fmt.Sprintf("   Warnings: %d", r.Warnings))
	logger.Info("   Status: " + status)
	logger.Info("")
}
