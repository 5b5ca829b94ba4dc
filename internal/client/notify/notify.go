// Package notify delivers short user-facing messages such as sync results.
// Show never blocks the caller.
package notify

import (
	"log"
	"sync/atomic"
)

type Notifier interface {
	Show(title, body string)
}

// Message is one notification.
type Message struct {
	Title string
	Body  string
}

// LogNotifier writes each message as a log line.
type LogNotifier struct{}

func (LogNotifier) Show(title, body string) {
	log.Printf("Notification: %s: %s", title, body)
}

// Nop discards every message.
type Nop struct{}

func (Nop) Show(string, string) {}

// Queue buffers messages for a consumer such as a UI loop. Messages that do
// not fit in the buffer are dropped.
type Queue struct {
	ch      chan Message
	dropped atomic.Int64
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 16
	}
	return &Queue{ch: make(chan Message, size)}
}

func (q *Queue) Show(title, body string) {
	select {
	case q.ch <- Message{Title: title, Body: body}:
	default:
		q.dropped.Add(1)
	}
}

// C returns the channel messages are delivered on.
func (q *Queue) C() <-chan Message {
	return q.ch
}

// Dropped reports how many messages were lost to a full buffer.
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}

// Multi fans a message out to several notifiers.
type Multi []Notifier

func (m Multi) Show(title, body string) {
	for _, n := range m {
		n.Show(title, body)
	}
}
