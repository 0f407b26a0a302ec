package contract

import (
	"context"
	"reflect"

	"chat-relay/protocol"
)

// Sink is the write end of one connected peer. Send pushes a single event
// and reports false when the peer is not writable (closed channel or full
// buffer). Callers treat false as a skipped delivery, never as an error.
type Sink interface {
	Send(evt protocol.Outbound) bool
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging and supervision, avoiding manual naming in the interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
