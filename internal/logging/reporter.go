package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Reporter receives progress messages and non-fatal errors, such as a file
// that could not be hashed. Implementations must be safe for concurrent use.
type Reporter interface {
	Message(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

type nop struct{}

func (nop) Message(string, ...zap.Field) {}
func (nop) Error(string, ...zap.Field)   {}

// Nop discards everything.
var Nop Reporter = nop{}

type zapReporter struct {
	logger *zap.Logger
}

// NewZapReporter logs messages at info level and errors at error level.
func NewZapReporter(logger *zap.Logger) Reporter {
	return &zapReporter{logger: logger}
}

func (r *zapReporter) Message(msg string, fields ...zap.Field) {
	r.logger.Info(msg, fields...)
}

func (r *zapReporter) Error(msg string, fields ...zap.Field) {
	r.logger.Error(msg, fields...)
}

type entry struct {
	msg    string
	fields []zap.Field
}

// Proxy hands every call over to a queue drained by its own goroutine, so
// hashing workers never block on a slow sink. Messages and errors have
// separate queues; order is kept within each queue.
type Proxy struct {
	target   Reporter
	messages chan entry
	errors   chan entry
	wg       sync.WaitGroup
	once     sync.Once
}

// NewProxy starts the consumers. buffer is the capacity of each queue.
func NewProxy(target Reporter, buffer int) *Proxy {
	if buffer < 0 {
		buffer = 0
	}
	p := &Proxy{
		target:   target,
		messages: make(chan entry, buffer),
		errors:   make(chan entry, buffer),
	}
	p.wg.Add(2)
	go p.drain(p.messages, target.Message)
	go p.drain(p.errors, target.Error)
	return p
}

func (p *Proxy) drain(queue <-chan entry, sink func(string, ...zap.Field)) {
	defer p.wg.Done()
	for e := range queue {
		sink(e.msg, e.fields...)
	}
}

func (p *Proxy) Message(msg string, fields ...zap.Field) {
	p.messages <- entry{msg: msg, fields: fields}
}

func (p *Proxy) Error(msg string, fields ...zap.Field) {
	p.errors <- entry{msg: msg, fields: fields}
}

// Close stops accepting entries and returns once every queued entry has
// reached the target. Calling Message or Error after Close panics.
func (p *Proxy) Close() error {
	p.once.Do(func() {
		close(p.messages)
		close(p.errors)
	})
	p.wg.Wait()
	return nil
}
