// Package notify shows transient, toast-like messages to the admin.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/labstack/gommon/color"
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Error   Level = "error"
)

type (
	// Notifier is fire-and-forget: callers never observe a result.
	Notifier interface {
		Notify(level Level, msg string)
	}

	Message struct {
		Level Level
		Text  string
		At    time.Time
	}
)

type console struct {
	mu    sync.Mutex
	out   io.Writer
	color *color.Color
}

var _ Notifier = (*console)(nil)

// NewConsole prints notifications to w, colored unless plain is set.
func NewConsole(w io.Writer, plain bool) Notifier {
	c := color.New()
	c.SetOutput(w)
	if plain {
		c.Disable()
	}
	return &console{out: w, color: c}
}

func (n *console) Notify(level Level, msg string) {
	var line string
	switch level {
	case Success:
		line = n.color.Green("✔ " + msg)
	case Error:
		line = n.color.Red("✖ " + msg)
	default:
		line = n.color.Cyan("• " + msg)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.out, line)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

var _ Notifier = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{messages: make([]Message, 0)}
}

func (r *Recorder) Notify(level Level, msg string) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Level: level, Text: msg, At: time.Now()})
	r.mu.Unlock()
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Texts returns the texts notified at level, in order.
func (r *Recorder) Texts(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	texts := make([]string, 0)
	for _, m := range r.messages {
		if m.Level == level {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = r.messages[:0]
	r.mu.Unlock()
}
