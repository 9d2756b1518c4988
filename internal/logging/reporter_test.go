package logging

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	mu       sync.Mutex
	messages []string
	errors   []string
}

func (r *recorder) Message(msg string, _ ...zap.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recorder) Error(msg string, _ ...zap.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

func TestZapReporter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewZapReporter(zap.New(core))

	r.Message("scanning", zap.String("root", "/data"))
	r.Error("cannot hash file", zap.String("path", "a.txt"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/data", entries[0].ContextMap()["root"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "cannot hash file", entries[1].Message)
}

func TestProxyFlushesOnClose(t *testing.T) {
	rec := &recorder{}
	p := NewProxy(rec, 4)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				p.Message(fmt.Sprintf("m%d-%d", w, i))
				p.Error(fmt.Sprintf("e%d-%d", w, i))
			}
		}(w)
	}
	wg.Wait()
	require.NoError(t, p.Close())

	assert.Len(t, rec.messages, 400)
	assert.Len(t, rec.errors, 400)
}

func TestProxyKeepsOrderPerQueue(t *testing.T) {
	rec := &recorder{}
	p := NewProxy(rec, 0)
	for i := 0; i < 20; i++ {
		p.Message(fmt.Sprint(i))
	}
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	for i, msg := range rec.messages {
		assert.Equal(t, fmt.Sprint(i), msg)
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop.Message("x")
		Nop.Error("y", zap.Int("n", 1))
	})
}
