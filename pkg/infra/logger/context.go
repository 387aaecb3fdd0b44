package logger

import (
	"context"
	"fmt"
	"runtime"
	"strings"
)

// captureStackTrace captures the current stack trace, skipping the specified number of frames.
func captureStackTrace(skip int) string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		if !more {
			break
		}
	}
	return builder.String()
}

// UnwrapError returns the messages of every error in a wrap chain.
func UnwrapError(err error) []string {
	var messages []string
	for err != nil {
		messages = append(messages, err.Error())
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	return messages
}

// ErrorFields returns the structured fields describing err.
func ErrorFields(err error) []interface{} {
	if err == nil {
		return nil
	}
	fields := []interface{}{
		"error", err.Error(),
		"error_type", fmt.Sprintf("%T", err),
	}
	if chain := UnwrapError(err); len(chain) > 1 {
		fields = append(fields, "error_chain", chain)
	}
	return fields
}

// LogError logs err with its chain using the context logger.
func LogError(ctx context.Context, msg string, err error, captureStack bool) {
	fields := ErrorFields(err)
	if captureStack {
		fields = append(fields, "stack_trace", captureStackTrace(2))
	}
	GetLogger(ctx).Errorw(msg, fields...)
}
