package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"go.uber.org/zap"

	"github.com/isdmx/mcp-postgres/config"
	"github.com/isdmx/mcp-postgres/interpreter"
)

// ExitFailure is the launcher's own exit code for fatal errors
const ExitFailure = 1

// NotFoundMessage is printed when no interpreter answered the probe
const NotFoundMessage = "Error: Python not found. Please install Python 3.12 or later."

// SpawnError is returned when the server process could not be created
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Locator finds the interpreter to launch the server with
type Locator interface {
	Locate(ctx context.Context) (interpreter.Interpreter, error)
}

// FileSystem defines the file system operations the launcher needs
type FileSystem interface {
	FileExists(path string) (bool, error)
}

// RealFileSystem implements FileSystem using actual file system operations
type RealFileSystem struct{}

func (RealFileSystem) FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// Launcher starts the server under a located interpreter
type Launcher struct {
	logger         *zap.Logger
	locator        Locator
	scriptPath     string
	forwardSignals bool
	stdin          io.Reader
	stdout         io.Writer
	stderr         io.Writer
	environ        func() []string
	fs             FileSystem
}

// Option defines a functional option for Launcher
type Option func(*Launcher)

// WithStdio replaces the streams the child inherits
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin = stdin
		l.stdout = stdout
		l.stderr = stderr
	}
}

// WithEnviron replaces the source of the child's environment
func WithEnviron(environ func() []string) Option {
	return func(l *Launcher) {
		l.environ = environ
	}
}

// WithFileSystem sets the FileSystem for Launcher
func WithFileSystem(fs FileSystem) Option {
	return func(l *Launcher) {
		l.fs = fs
	}
}

// WithSignalForwarding toggles relaying termination signals to the child
func WithSignalForwarding(enabled bool) Option {
	return func(l *Launcher) {
		l.forwardSignals = enabled
	}
}

// New creates a Launcher wired to the process's own stdio and environment
func New(logger *zap.Logger, locator Locator, scriptPath string, opts ...Option) *Launcher {
	launcher := &Launcher{
		logger:         logger,
		locator:        locator,
		scriptPath:     scriptPath,
		forwardSignals: true,
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		environ:        os.Environ,
		fs:             &RealFileSystem{},
	}

	for _, opt := range opts {
		opt(launcher)
	}

	return launcher
}

// NewFromConfig creates a Launcher for the configured server script
func NewFromConfig(cfg *config.Config, logger *zap.Logger, locator *interpreter.Locator) *Launcher {
	return New(logger, locator, cfg.ServerScriptPath(), WithSignalForwarding(cfg.Server.ForwardSignals))
}

// ScriptPath returns the server script the launcher runs
func (l *Launcher) ScriptPath() string {
	return l.scriptPath
}

// Run locates an interpreter, runs the server with args and returns the exit
// code the launcher should terminate with. Diagnostics go to stderr.
func (l *Launcher) Run(ctx context.Context, args []string) int {
	interp, err := l.locator.Locate(ctx)
	if err != nil {
		l.logger.Debug("no usable interpreter", zap.Error(err))
		fmt.Fprintln(l.stderr, NotFoundMessage)
		return ExitFailure
	}

	l.checkScript()

	exitCode, err := l.Launch(interp, args)
	if err != nil {
		l.logger.Debug("server launch failed", zap.Error(err))
		var spawnErr *SpawnError
		if errors.As(err, &spawnErr) {
			fmt.Fprintf(l.stderr, "Failed to start python process: %v\n", spawnErr.Err)
		} else {
			fmt.Fprintf(l.stderr, "Python process failed: %v\n", err)
		}
		return ExitFailure
	}

	return exitCode
}

// Launch runs the server under interp and blocks until it exits, returning
// the child's exit code. A child killed by a signal is reported as 128+signo
// where the platform exposes it.
func (l *Launcher) Launch(interp interpreter.Interpreter, args []string) (int, error) {
	cmd := l.Command(interp, args)

	l.logger.Debug("starting server",
		zap.String("interpreter", interp.Command),
		zap.String("version", interp.Version),
		zap.Strings("args", cmd.Args[1:]),
	)

	relay := l.subscribeSignals()
	defer relay.stop()

	if err := cmd.Start(); err != nil {
		return 0, &SpawnError{Command: interp.Command, Err: err}
	}
	relay.forwardTo(cmd.Process)

	err := cmd.Wait()
	if cmd.ProcessState == nil {
		return 0, fmt.Errorf("failed to wait for %s: %w", interp.Command, err)
	}

	var exitError *exec.ExitError
	if err != nil && !errors.As(err, &exitError) {
		// The child exited but copying one of its streams failed
		l.logger.Warn("server stream copy failed", zap.Error(err))
	}

	exitCode := exitStatus(cmd.ProcessState)
	l.logger.Debug("server exited", zap.Int("exit_code", exitCode))
	return exitCode, nil
}

// Command builds the server command without starting it
func (l *Launcher) Command(interp interpreter.Interpreter, args []string) *exec.Cmd {
	cmd := exec.Command(interp.Command, BuildArgs(l.scriptPath, args)...) //nolint:gosec // Running the server is the launcher's purpose
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	cmd.Env = l.environ()
	return cmd
}

// BuildArgs returns the interpreter arguments: the script followed by args verbatim
func BuildArgs(scriptPath string, args []string) []string {
	out := make([]string, 0, len(args)+1)
	out = append(out, scriptPath)
	return append(out, args...)
}

func (l *Launcher) checkScript() {
	exists, err := l.fs.FileExists(l.scriptPath)
	switch {
	case err != nil:
		l.logger.Warn("cannot stat server script", zap.String("path", l.scriptPath), zap.Error(err))
	case !exists:
		l.logger.Warn("server script not found", zap.String("path", l.scriptPath))
	}
}

// signalRelay forwards termination signals received by the launcher to the child
type signalRelay struct {
	logger *zap.Logger
	ch     chan os.Signal
	done   chan struct{}
}

// subscribeSignals starts catching signals before the child exists so that
// none arriving during start-up kill the launcher. They are buffered until
// forwardTo is called.
func (l *Launcher) subscribeSignals() *signalRelay {
	relay := &signalRelay{logger: l.logger, done: make(chan struct{})}
	if !l.forwardSignals || len(relayedSignals) == 0 {
		return relay
	}

	relay.ch = make(chan os.Signal, len(relayedSignals))
	signal.Notify(relay.ch, relayedSignals...)
	return relay
}

func (r *signalRelay) forwardTo(proc *os.Process) {
	if r.ch == nil {
		return
	}

	go func() {
		for {
			select {
			case sig := <-r.ch:
				r.logger.Debug("forwarding signal", zap.Stringer("signal", sig))
				if err := forwardSignal(proc, sig); err != nil {
					r.logger.Debug("signal forwarding failed", zap.Stringer("signal", sig), zap.Error(err))
				}
			case <-r.done:
				return
			}
		}
	}()
}

func (r *signalRelay) stop() {
	if r.ch != nil {
		signal.Stop(r.ch)
	}
	close(r.done)
}
