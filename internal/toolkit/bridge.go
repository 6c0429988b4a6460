package toolkit

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"

	"rknnc/internal/payload"
	"rknnc/pkg/types"
)

//go:embed bridge.py
var bridgeScript string

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python3"

// BridgeOptions configures the bridge process.
type BridgeOptions struct {
	// Python interpreter with rknn-toolkit2 and numpy installed.
	Python string
	// Verbose turns on the toolkit's own verbose logging; its output is
	// logged at info level instead of debug.
	Verbose bool
	// Command replaces the interpreter invocation entirely. Used by tests.
	Command []string
	// Env is appended to the inherited environment.
	Env []string
	Logger zerolog.Logger
}

// Bridge runs the toolkit in a Python child process and talks to it over
// newline-delimited JSON on stdin/stdout. The child's stderr is logged.
type Bridge struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr *lineLogger
	log    zerolog.Logger
	closed bool
}

// StartBridge launches the bridge process. The process is killed when ctx is
// cancelled.
func StartBridge(ctx context.Context, opts BridgeOptions) (*Bridge, error) {
	argv := opts.Command
	if len(argv) == 0 {
		py := opts.Python
		if py == "" {
			py = DefaultPython
		}
		argv = []string{py, "-u", "-c", bridgeScript}
		if opts.Verbose {
			argv = append(argv, "--verbose")
		}
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), opts.Env...)

	level := zerolog.DebugLevel
	if opts.Verbose {
		level = zerolog.InfoLevel
	}
	stderr := &lineLogger{log: opts.Logger, level: level}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start toolkit bridge %q: %w", argv[0], err)
	}
	opts.Logger.Debug().Str("cmd", argv[0]).Int("pid", cmd.Process.Pid).Msg("toolkit bridge started")
	return &Bridge{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		stderr: stderr,
		log:    opts.Logger,
	}, nil
}

func (b *Bridge) Configure(ctx context.Context, kwargs payload.Payload) (int, error) {
	return b.call(ctx, types.OpConfig, nil, kwargs)
}

func (b *Bridge) LoadONNX(ctx context.Context, model string, kwargs payload.Payload) (int, error) {
	return b.call(ctx, types.OpLoadONNX, []any{model}, kwargs)
}

func (b *Bridge) Build(ctx context.Context, kwargs payload.Payload) (int, error) {
	return b.call(ctx, types.OpBuild, nil, kwargs)
}

func (b *Bridge) Export(ctx context.Context, path string) (int, error) {
	return b.call(ctx, types.OpExport, []any{path}, nil)
}

// call sends one request and waits for its reply.
func (b *Bridge) call(ctx context.Context, op string, args []any, kwargs payload.Payload) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, ErrBridgeClosed
	}
	return b.roundTrip(ctx, op, args, kwargs)
}

// roundTrip writes one request line and reads one reply line. b.mu must be held.
func (b *Bridge) roundTrip(ctx context.Context, op string, args []any, kwargs payload.Payload) (int, error) {
	req := types.BridgeRequest{Op: op, Args: args}
	if kwargs != nil {
		req.Kwargs = kwargs
	}
	line, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("encode %s request: %w", op, err)
	}
	b.log.Debug().Str("op", op).RawJSON("request", line).Msg("toolkit call")
	if _, err := b.stdin.Write(append(line, '\n')); err != nil {
		return 0, b.transportError(ctx, op, err)
	}
	reply, err := b.stdout.ReadBytes('\n')
	if err != nil {
		return 0, b.transportError(ctx, op, err)
	}
	var resp types.BridgeResponse
	if err := json.Unmarshal(reply, &resp); err != nil {
		return 0, fmt.Errorf("decode %s reply %q: %w", op, reply, err)
	}
	if resp.Error != "" {
		return 0, &BridgeError{Op: op, Message: resp.Error}
	}
	return resp.Code, nil
}

func (b *Bridge) transportError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		return fmt.Errorf("toolkit bridge exited during %s: %w", op, err)
	}
	return fmt.Errorf("toolkit bridge %s: %w", op, err)
}

// Close ends the session: it asks the bridge to release the toolkit, then
// closes stdin and waits for the process. If the release request cannot be
// delivered the bridge still releases on end of input. Close is safe to call
// more than once.
func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if _, err := b.roundTrip(context.Background(), types.OpRelease, nil, nil); err != nil {
		b.log.Debug().Err(err).Msg("toolkit release request failed")
	}
	_ = b.stdin.Close()
	err := b.cmd.Wait()
	b.stderr.Flush()
	if err != nil {
		return fmt.Errorf("toolkit bridge: %w", err)
	}
	b.log.Debug().Msg("toolkit bridge stopped")
	return nil
}
