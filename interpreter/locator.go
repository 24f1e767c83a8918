package interpreter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/isdmx/mcp-postgres/config"
)

// ErrNotFound is returned when no candidate interpreter answered the version probe
var ErrNotFound = errors.New("python interpreter not found")

// DefaultVersionArgs is the version query used when none is configured
var DefaultVersionArgs = []string{"--version"}

// Interpreter is a candidate that passed the version probe
type Interpreter struct {
	Command string // candidate name as configured, used to spawn
	Path    string // resolved executable path, empty if lookup failed
	Version string // first line of the version output
}

// Locator finds the first working interpreter among an ordered candidate list
type Locator struct {
	logger       *zap.Logger
	candidates   []string
	versionArgs  []string
	probeTimeout time.Duration
	cmdRunner    CommandRunner
}

// LocatorOption defines a functional option for Locator
type LocatorOption func(*Locator)

// WithCommandRunner sets the CommandRunner used for probes
func WithCommandRunner(cmdRunner CommandRunner) LocatorOption {
	return func(l *Locator) {
		l.cmdRunner = cmdRunner
	}
}

// WithVersionArgs sets the arguments of the version probe
func WithVersionArgs(args []string) LocatorOption {
	return func(l *Locator) {
		if len(args) > 0 {
			l.versionArgs = args
		}
	}
}

// WithProbeTimeout bounds each probe; zero disables the bound
func WithProbeTimeout(timeout time.Duration) LocatorOption {
	return func(l *Locator) {
		l.probeTimeout = timeout
	}
}

// NewLocator creates a Locator probing candidates in the given order
func NewLocator(logger *zap.Logger, candidates []string, opts ...LocatorOption) *Locator {
	locator := &Locator{
		logger:      logger,
		candidates:  candidates,
		versionArgs: DefaultVersionArgs,
		cmdRunner:   &RealCommandRunner{},
	}

	for _, opt := range opts {
		opt(locator)
	}

	return locator
}

// NewLocatorFromConfig creates a Locator from the interpreter section of the configuration
func NewLocatorFromConfig(cfg *config.Config, logger *zap.Logger) *Locator {
	return NewLocator(logger, cfg.Interpreter.Candidates,
		WithVersionArgs(cfg.Interpreter.VersionArgs),
		WithProbeTimeout(cfg.GetProbeTimeout()),
	)
}

// Candidates returns the probe order
func (l *Locator) Candidates() []string {
	return append([]string(nil), l.candidates...)
}

// Locate probes each candidate in order and returns the first that succeeds.
// Remaining candidates are not probed once one succeeds.
func (l *Locator) Locate(ctx context.Context) (Interpreter, error) {
	var errs error

	for _, candidate := range l.candidates {
		interp, err := l.probe(ctx, candidate)
		if err != nil {
			l.logger.Debug("interpreter probe failed",
				zap.String("command", candidate),
				zap.Error(err),
			)
			errs = multierr.Append(errs, err)
			continue
		}

		l.logger.Debug("interpreter selected",
			zap.String("command", interp.Command),
			zap.String("path", interp.Path),
			zap.String("version", interp.Version),
		)
		return interp, nil
	}

	if errs == nil {
		return Interpreter{}, ErrNotFound
	}
	return Interpreter{}, fmt.Errorf("%w: %w", ErrNotFound, errs)
}

func (l *Locator) probe(ctx context.Context, candidate string) (Interpreter, error) {
	if l.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.probeTimeout)
		defer cancel()
	}

	args := append([]string{candidate}, l.versionArgs...)
	stdout, stderr, exitCode, err := l.cmdRunner.RunCommand(ctx, args)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Interpreter{}, fmt.Errorf("%s: version probe timed out after %s", candidate, l.probeTimeout)
	}
	if err != nil {
		return Interpreter{}, fmt.Errorf("%s: %w", candidate, err)
	}
	if exitCode != 0 {
		return Interpreter{}, fmt.Errorf("%s: version probe exited with code %d", candidate, exitCode)
	}

	interp := Interpreter{
		Command: candidate,
		Version: firstLine(stdout, stderr),
	}
	if path, lookErr := l.cmdRunner.LookPath(candidate); lookErr == nil {
		interp.Path = path
	}

	return interp, nil
}

// firstLine returns the first non-empty line of stdout, falling back to stderr.
// Python 2 prints its version on stderr.
func firstLine(outputs ...string) string {
	for _, out := range outputs {
		for _, line := range strings.Split(out, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
