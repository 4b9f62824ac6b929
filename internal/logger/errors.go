package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned by Init when Log.AppName is not set.
	ErrAppNameIsEmpty = errors.New("logger: app name is required")

	// ErrServiceNameIsEmpty is returned by Init when Log.ServiceName is not set.
	ErrServiceNameIsEmpty = errors.New("logger: service name is required, it labels the log metrics")
)

// writeFailed reports events zerolog could not write. The log itself is unusable at that point.
func writeFailed(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "propertylens: dropped log event: %v\n", err)
}
