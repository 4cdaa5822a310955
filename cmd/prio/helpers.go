package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/prio/prio/internal/client"
	"github.com/prio/prio/internal/config"
	"github.com/prio/prio/internal/domain"
	"github.com/prio/prio/internal/session"
	"github.com/prio/prio/internal/store"
	"github.com/prio/prio/internal/workspace"
)

// app holds everything a command needs for one invocation.
type app struct {
	cfg        *config.ResolvedConfig
	manager    *workspace.Manager
	repo       *workspace.Repository
	tasks      *store.TaskStore
	client     *client.Client
	presenter  *terminalPresenter
	controller *session.Controller
	logger     *log.Logger
}

// openApp resolves config from the working directory and opens the workspace.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.ResolveConfig()
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg, os.Stdout, os.Stderr)
}

// newApp loads the configured workspace into a task store and wires the
// client, presenter and session controller around it.
func newApp(ctx context.Context, cfg *config.ResolvedConfig, out, errOut io.Writer) (*app, error) {
	logger := newLogger(errOut)

	manager, err := workspace.NewManager(cfg.WorkspacesDir)
	if err != nil {
		return nil, err
	}
	repo, err := manager.Open(cfg.Workspace)
	if err != nil {
		manager.Close()
		return nil, err
	}
	snap, err := repo.Load(ctx)
	if err != nil {
		manager.Close()
		return nil, err
	}

	tasks := store.New()
	if err := tasks.Restore(snap.Tasks, snap.NextID); err != nil {
		manager.Close()
		return nil, fmt.Errorf("workspace %s is corrupt: %w", cfg.Workspace, err)
	}

	c, err := client.NewClient(
		client.WithScheme(cfg.ServerScheme),
		client.WithHost(cfg.ServerHost),
		client.WithPort(cfg.ServerPort),
		client.WithTimeout(requestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		manager.Close()
		return nil, err
	}

	presenter := newTerminalPresenter(out, errOut, jsonOutput)
	controller := session.New(tasks, c, c, presenter,
		session.WithLogger(logger),
		session.WithDismissDelay(0),
	)

	return &app{
		cfg:        cfg,
		manager:    manager,
		repo:       repo,
		tasks:      tasks,
		client:     c,
		presenter:  presenter,
		controller: controller,
		logger:     logger,
	}, nil
}

// save writes the task store back to the workspace.
func (a *app) save(ctx context.Context) error {
	return a.repo.Save(ctx, workspace.Snapshot{
		Tasks:  a.tasks.List(),
		NextID: a.tasks.NextID(),
	})
}

func (a *app) close() {
	a.controller.Close()
	a.manager.Close()
}

// newLogger returns the request logger; it discards unless --verbose is set.
func newLogger(w io.Writer) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(w, "[prio] ", log.LstdFlags)
}

// mapErrorToExitCode maps an error to the appropriate exit code
func mapErrorToExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, config.ErrNotConfigured) {
		return ExitProjectNotConfigured
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeValidationFailed, domain.ErrCodeInvalidFormat, domain.ErrCodeEmptyInput:
			return ExitInvalidInput
		case domain.ErrCodeServerError, domain.ErrCodeAPIError:
			return ExitRemoteError
		case domain.ErrCodeTransportError:
			if domain.IsUnreachable(err) {
				return ExitServerUnreachable
			}
		}
	}

	return ExitGeneralError
}

// handleError prints err and exits with the matching code. Errors the
// presenter already reported are not printed twice.
func handleError(a *app, err error) {
	if err == nil {
		return
	}

	if a == nil || !a.presenter.ErrorShown() {
		printError(os.Stderr, err, jsonOutput)
	}
	if a != nil {
		a.close()
	}
	os.Exit(mapErrorToExitCode(err))
}

// withApp opens the app, runs fn and exits on failure.
func withApp(ctx context.Context, fn func(a *app) error) {
	a, err := openApp(ctx)
	if err != nil {
		handleError(nil, err)
	}
	if err := fn(a); err != nil {
		handleError(a, err)
	}
	a.close()
}

// parseTaskID parses a numeric task ID argument.
func parseTaskID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError(fmt.Sprintf("invalid task id %q", s))
	}
	return id, nil
}
