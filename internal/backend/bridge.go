package backend

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/zhubert/tgterm/internal/errors"
	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/protocol"
)

// eventBuffer bounds how far the reader may run ahead of the network worker.
const eventBuffer = 256

// BridgeConfig names the subprocess to run.
type BridgeConfig struct {
	Command string
	Args    []string
}

// Bridge runs a subprocess that speaks newline-delimited JSON: requests on
// its stdin, events on its stdout.
type Bridge struct {
	config BridgeConfig
	log    *slog.Logger

	mu            sync.Mutex
	cmd           *exec.Cmd
	stdin         io.WriteCloser
	stdout        *bufio.Reader
	stderr        io.ReadCloser
	stderrContent string
	readDone      chan struct{}
	stderrDone    chan struct{}
	waitDone      chan struct{}
	running       bool
	stopping      bool

	events chan *protocol.Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBridge creates a bridge client. Call Start before use.
func NewBridge(config BridgeConfig) *Bridge {
	return &Bridge{
		config: config,
		log:    logger.WithComponent("bridge"),
		events: make(chan *protocol.Event, eventBuffer),
	}
}

// Start launches the subprocess.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return nil
	}

	b.log.Info("starting bridge", "command", b.config.Command+" "+strings.Join(b.config.Args, " "))
	cmd := exec.Command(b.config.Command, b.config.Args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.BridgeStartFailed(b.config.Command, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return errors.BridgeStartFailed(b.config.Command, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return errors.BridgeStartFailed(b.config.Command, err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		stderr.Close()
		return errors.BridgeStartFailed(b.config.Command, err)
	}

	b.cmd = cmd
	b.stdin = stdin
	b.stdout = bufio.NewReader(stdout)
	b.stderr = stderr
	b.readDone = make(chan struct{})
	b.stderrDone = make(chan struct{})
	b.waitDone = make(chan struct{})
	b.running = true
	b.ctx, b.cancel = context.WithCancel(context.Background())

	b.log.Info("bridge started", "pid", cmd.Process.Pid)

	b.wg.Add(3)
	go func() {
		defer b.wg.Done()
		b.readOutput()
	}()
	go func() {
		defer b.wg.Done()
		b.drainStderr()
	}()
	go func() {
		defer b.wg.Done()
		b.monitorExit()
	}()
	return nil
}

// Send writes one request line. A failed write is reported as a fatal
// error event.
func (b *Bridge) Send(req protocol.Request) {
	b.mu.Lock()
	stdin := b.stdin
	running := b.running
	b.mu.Unlock()

	if !running || stdin == nil {
		b.deliver(transportError(protocol.MsgBridgeWriteFailed, "bridge not running"))
		return
	}

	line := make([]byte, 0, len(req.Payload)+1)
	line = append(line, req.Payload...)
	line = append(line, '\n')
	if _, err := stdin.Write(line); err != nil {
		b.log.Error("failed to write request", "request", req.String(), "error", err)
		b.deliver(transportError(protocol.MsgBridgeWriteFailed, err.Error()))
		return
	}
	b.log.Debug("sent request", "request", req.String())
}

// Receive waits up to timeout for the next event.
func (b *Bridge) Receive(timeout time.Duration) (*protocol.Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-b.events:
		return ev, true
	case <-timer.C:
		return nil, false
	}
}

// deliver queues an event without blocking past shutdown.
func (b *Bridge) deliver(ev *protocol.Event) {
	b.mu.Lock()
	ctx := b.ctx
	b.mu.Unlock()

	if ctx == nil {
		select {
		case b.events <- ev:
		default:
			b.log.Warn("dropping event, bridge never started", "type", ev.Type)
		}
		return
	}
	select {
	case b.events <- ev:
	case <-ctx.Done():
	}
}

func (b *Bridge) readOutput() {
	defer close(b.readDone)
	b.log.Debug("output reader started")

	for {
		line, err := b.stdout.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			ev, decodeErr := protocol.DecodeEvent([]byte(line))
			if decodeErr != nil {
				b.log.Warn("discarding undecodable line", "error", decodeErr)
			} else {
				b.deliver(ev)
			}
		}
		if err != nil {
			if err == io.EOF {
				b.log.Debug("EOF on stdout")
			} else {
				b.log.Debug("error reading stdout", "error", err)
			}
			return
		}
	}
}

// drainStderr keeps the bridge's diagnostics so an exit can explain itself.
func (b *Bridge) drainStderr() {
	defer close(b.stderrDone)

	data, err := io.ReadAll(b.stderr)
	if err != nil {
		b.log.Debug("error reading stderr", "error", err)
	}
	if len(data) > 0 {
		b.mu.Lock()
		b.stderrContent = strings.TrimSpace(string(data))
		b.mu.Unlock()
	}
}

// monitorExit is the sole caller of cmd.Wait, which may only run once
// both pipes are fully read.
func (b *Bridge) monitorExit() {
	<-b.readDone
	<-b.stderrDone
	err := b.cmd.Wait()
	close(b.waitDone)

	b.mu.Lock()
	stopping := b.stopping
	stderr := b.stderrContent
	b.running = false
	b.mu.Unlock()

	if stopping {
		b.log.Debug("bridge stopped")
		return
	}

	detail := "exited"
	if err != nil {
		detail = err.Error()
	}
	if stderr != "" {
		detail = fmt.Sprintf("%s: %s", detail, stderr)
	}
	b.log.Error("bridge exited unexpectedly", "detail", detail)
	b.deliver(transportError(protocol.MsgBridgeExited, detail))
}

// Close stops the subprocess, killing it if it does not exit after its
// stdin is closed.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if !b.running {
		if b.cancel != nil {
			b.cancel()
		}
		b.mu.Unlock()
		b.wg.Wait()
		return nil
	}
	b.stopping = true
	b.running = false
	// Cancel first so a reader blocked on delivery can reach EOF.
	b.cancel()
	if b.stdin != nil {
		b.stdin.Close()
		b.stdin = nil
	}
	cmd := b.cmd
	waitDone := b.waitDone
	b.mu.Unlock()

	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		b.log.Debug("force killing bridge")
		cmd.Process.Kill()
		<-waitDone
	}
	b.wg.Wait()
	return nil
}
