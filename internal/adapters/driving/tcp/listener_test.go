package tcp

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/printdrop/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/printdrop/internal/core/domain"
	"github.com/custodia-labs/printdrop/internal/core/ports/driving"
	"github.com/custodia-labs/printdrop/internal/core/services"
	"github.com/custodia-labs/printdrop/internal/logger"
)

// recordingReceiver implements driving.ReceiverService and remembers
// every stream it was given.
type recordingReceiver struct {
	mu       sync.Mutex
	streams  []string
	panicOn  string
	received chan string
}

func newRecordingReceiver() *recordingReceiver {
	return &recordingReceiver{received: make(chan string, 16)}
}

func (r *recordingReceiver) Receive(_ context.Context, src io.Reader, remoteAddr string) (*domain.ImportRecord, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.streams = append(r.streams, string(data))
	r.mu.Unlock()
	r.received <- string(data)

	if r.panicOn != "" && string(data) == r.panicOn {
		panic("handler blew up")
	}
	return &domain.ImportRecord{
		Outcome:    domain.OutcomeDiscarded,
		RemoteAddr: remoteAddr,
		Bytes:      int64(len(data)),
	}, nil
}

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("job-%04d", g.next)
}

func silenceLog(t *testing.T) {
	t.Helper()
	logger.SetOutput(io.Discard)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
}

// startListener serves receiver on a loopback port. The returned wait
// function blocks until Serve returns and may be called repeatedly.
func startListener(t *testing.T, receiver driving.ReceiverService) (*Listener, context.CancelFunc, func() error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	ln, err := Listen(ctx, Config{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- ln.Serve(ctx, receiver)
	}()

	var once sync.Once
	var serveErr error
	wait := func() error {
		once.Do(func() { serveErr = <-done })
		return serveErr
	}
	t.Cleanup(func() {
		cancel()
		_ = wait()
	})
	return ln, cancel, wait
}

func send(t *testing.T, addr net.Addr, payload string) {
	t.Helper()

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	_, err = conn.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, conn.Close())
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for connection")
		return ""
	}
}

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, ":9100", Config{Port: DefaultPort}.Address())
	assert.Equal(t, "127.0.0.1:0", Config{Host: "127.0.0.1"}.Address())
}

func TestListen_InvalidPort(t *testing.T) {
	_, err := Listen(context.Background(), Config{Port: 70000})
	assert.Error(t, err)
}

func TestListen_PortInUse(t *testing.T) {
	first, err := Listen(context.Background(), Config{Host: "127.0.0.1"})
	require.NoError(t, err)
	defer first.Close()

	_, err = Listen(context.Background(), Config{Host: "127.0.0.1", Port: first.Port()})

	assert.Error(t, err)
}

func TestListen_PicksFreePort(t *testing.T) {
	ln, err := Listen(context.Background(), Config{Host: "127.0.0.1"})
	require.NoError(t, err)
	defer ln.Close()

	assert.Positive(t, ln.Port())
	assert.Contains(t, ln.Addr().String(), "127.0.0.1:")
}

func TestListener_Close_Idempotent(t *testing.T) {
	ln, err := Listen(context.Background(), Config{Host: "127.0.0.1"})
	require.NoError(t, err)

	assert.NoError(t, ln.Close())
	assert.NoError(t, ln.Close())
}

func TestListener_Serve_NilReceiver(t *testing.T) {
	ln, err := Listen(context.Background(), Config{Host: "127.0.0.1"})
	require.NoError(t, err)
	defer ln.Close()

	assert.Error(t, ln.Serve(context.Background(), nil))
}

func TestListener_Serve_SequentialConnections(t *testing.T) {
	silenceLog(t)
	receiver := newRecordingReceiver()
	ln, _, _ := startListener(t, receiver)

	send(t, ln.Addr(), "first job")
	assert.Equal(t, "first job", waitFor(t, receiver.received))
	send(t, ln.Addr(), "second job")
	assert.Equal(t, "second job", waitFor(t, receiver.received))
}

func TestListener_Serve_SurvivesHandlerPanic(t *testing.T) {
	silenceLog(t)
	receiver := newRecordingReceiver()
	receiver.panicOn = "bad"
	ln, _, _ := startListener(t, receiver)

	send(t, ln.Addr(), "bad")
	waitFor(t, receiver.received)
	send(t, ln.Addr(), "good")

	assert.Equal(t, "good", waitFor(t, receiver.received))
}

func TestListener_Serve_StopsOnCancel(t *testing.T) {
	silenceLog(t)
	ln, cancel, wait := startListener(t, newRecordingReceiver())

	cancel()

	assert.NoError(t, wait())
	_, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	assert.Error(t, err)
}

func TestListener_Serve_ImportsOverSocket(t *testing.T) {
	silenceLog(t)
	dir := t.TempDir()
	store, err := filesystem.NewStore(dir, &sequenceIDs{})
	require.NoError(t, err)
	ln, _, _ := startListener(t, services.NewReceiver(store, nil, nil))

	send(t, ln.Addr(), "JOB START\n%PD")
	send(t, ln.Addr(), "JOB START\n%PDF-1.4\nBODYBYTES")

	pdf := filepath.Join(dir, "job-0002.pdf")
	metadata := filepath.Join(dir, "job-0002.metadata")
	require.Eventually(t, func() bool {
		_, err := os.Stat(metadata)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	payload, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.Equal(t, "BODYBYTES", string(payload))
	_, err = os.Stat(filepath.Join(dir, "job-0001.pdf"))
	assert.True(t, os.IsNotExist(err))
}
