package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown. The pipeline runs
// immediately and then on every tick; a failed run is logged and retried on
// the next tick since all writes are idempotent.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("storage-mode", a.cfg.StorageMode),
		zap.Duration("pipeline-interval", a.cfg.PipelineInterval),
		zap.String("log-level", a.cfg.LogLevel))

	a.wg.Add(1)
	go a.runHTTPServer()

	a.wg.Add(1)
	go a.runPipelineLoop()

	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort))

	return a.waitForShutdown()
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) runPipelineLoop() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.cfg.PipelineInterval)
	defer ticker.Stop()

	a.runOnce()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.runOnce()
		}
	}
}

func (a *App) runOnce() {
	report, err := a.pipeline.Run(a.ctx)
	if err != nil {
		a.logger.Error("pipeline-run-failed", zap.Error(err))
		return
	}

	a.logger.Debug("pipeline-run-report",
		zap.Int("linked", report.Resolution.Linked),
		zap.Int("devigged", report.Devigged),
		zap.Int("opportunities", report.Opportunities),
		zap.Int("ev-estimates", report.EvEstimates))
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
