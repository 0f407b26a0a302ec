package errors

import "fmt"

var (
	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrEmptyWords     = fmt.Errorf("no words have been found")
	ErrUnknownClient  = fmt.Errorf("unknown client")
	ErrUnknownGroup   = fmt.Errorf("unknown group")
	ErrProtectedGroup = fmt.Errorf("default group cannot be deleted")
)
