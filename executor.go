package lightbridge

import (
	"context"
	"log/slog"
)

// request pairs a parsed command with the channel its result is delivered
// on. The reply channel is buffered so the worker never blocks on a caller
// that gave up.
type request struct {
	cmd   Command
	reply chan error
}

// Executor serializes command execution: one in-flight command end-to-end
// across all client connections. Without this, responses on the shared
// serial line could be attributed to the wrong exchange and session
// snapshots would race.
type Executor struct {
	ctrl    *Controller
	logger  *slog.Logger
	metrics *Metrics

	requests chan request
}

// NewExecutor returns an executor for the given controller. Run must be
// called before Submit will make progress.
func NewExecutor(ctrl *Controller, logger *slog.Logger, metrics *Metrics) *Executor {
	return &Executor{
		ctrl:     ctrl,
		logger:   logger,
		metrics:  metrics,
		requests: make(chan request),
	}
}

// Run consumes and executes commands until the context is cancelled. It is
// the only goroutine that touches the controller.
func (e *Executor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-e.requests:
			req.reply <- e.execute(req.cmd)
		}
	}
}

// Submit queues a command and blocks until it has been executed or the
// context is cancelled. A nil return means the command succeeded end to end.
func (e *Executor) Submit(ctx context.Context, cmd Command) error {
	req := request{cmd: cmd, reply: make(chan error, 1)}

	select {
	case e.requests <- req:
	case <-ctx.Done():
		return ErrExecutorStopped
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ErrExecutorStopped
	}
}

// execute dispatches one command to the controller. SHUTDOWN returns its own
// result directly: device control has been handed back, so there is nothing
// left to sync. Every other command is followed by an unconditional sync,
// success or failure, and the command fails if either step failed.
func (e *Executor) execute(cmd Command) error {
	var opErr error

	switch cmd.Kind {
	case CmdShutdown:
		opErr = e.ctrl.Shutdown()
		e.finish(cmd, opErr)
		return opErr
	case CmdInitialize:
		opErr = e.ctrl.Initialize()
	case CmdSetIntensity:
		opErr = e.ctrl.SetIntensity(cmd.Intensity)
	case CmdSetShutter:
		opErr = e.ctrl.SetShutter(cmd.Open)
	}

	if syncErr := e.ctrl.Sync(); syncErr != nil {
		e.logger.Warn("device sync failed", "command", cmd.Kind.String(), "error", syncErr)
		if opErr == nil {
			opErr = syncErr
		}
	}

	e.finish(cmd, opErr)
	return opErr
}

func (e *Executor) finish(cmd Command, err error) {
	e.metrics.commandHandled(cmd.Kind.String(), err)
	if err != nil {
		e.logger.Error("command failed", "command", cmd.Kind.String(), "error", err)
	} else {
		e.logger.Debug("command ok", "command", cmd.Kind.String())
	}
}
