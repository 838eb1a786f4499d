// Package errors provides custom error types for the hlc kit
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents the type of error that occurred
type ErrorCode string

const (
	ErrCodeClockDrift      ErrorCode = "CLOCK_DRIFT_OVERFLOW"
	ErrCodeCounterOverflow ErrorCode = "COUNTER_OVERFLOW"
	ErrCodeParseFailure    ErrorCode = "PARSE_FAILURE"
)

// Operation represents the clock operation during which an error occurred
type Operation string

const (
	OpSend    Operation = "send"
	OpReceive Operation = "receive"
	OpDecode  Operation = "decode"
	OpConfig  Operation = "config"
)

// ParseReason classifies why strict decoding rejected an input.
type ParseReason string

const (
	ReasonFieldCount  ParseReason = "wrong field count"
	ReasonEmptyNodeID ParseReason = "empty node id"
	ReasonBadWallTime ParseReason = "unparseable or out-of-range wall time"
	ReasonBadCounter  ParseReason = "unparseable or out-of-range counter"
	ReasonBadEnvelope ParseReason = "malformed wire envelope"
)

// DriftError reports that a candidate physical time diverged from the
// local wall clock by more than the configured bound. It signals likely
// clock misconfiguration or a corrupt remote timestamp; the caller must
// decide whether to resynchronize, widen the bound, or reject the event.
type DriftError struct {
	// Operation during which the error occurred
	Op Operation

	// MaxDrift is the configured drift bound
	MaxDrift time.Duration

	// ObservedDrift is the divergence that was actually measured
	ObservedDrift time.Duration
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%s operation failed [%s]: observed drift %v exceeds maximum %v",
		e.Op, ErrCodeClockDrift, e.ObservedDrift, e.MaxDrift)
}

// Code returns the error code for this error type
func (e *DriftError) Code() ErrorCode { return ErrCodeClockDrift }

// CounterOverflowError reports that more same-millisecond events were
// generated than the fixed-width logical counter can represent. It signals
// either a pathological event rate or a wall clock that has stopped
// advancing; the caller must wait for physical time to advance or reduce
// the event rate.
type CounterOverflowError struct {
	// Operation during which the error occurred
	Op Operation

	// Max is the largest representable counter value
	Max int64

	// Current is the candidate counter value that was rejected
	Current int64
}

func (e *CounterOverflowError) Error() string {
	return fmt.Sprintf("%s operation failed [%s]: logical counter %d exceeds maximum %d",
		e.Op, ErrCodeCounterOverflow, e.Current, e.Max)
}

// Code returns the error code for this error type
func (e *CounterOverflowError) Code() ErrorCode { return ErrCodeCounterOverflow }

// ParseError reports that strict decoding rejected a malformed timestamp
// encoding.
type ParseError struct {
	// Input is the string that failed to decode
	Input string

	// Reason classifies the rejection
	Reason ParseReason

	// Underlying error, if any (e.g. from the date or integer parser)
	Err error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("decode operation failed [%s]: %s in %q", ErrCodeParseFailure, e.Reason, e.Input)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Code returns the error code for this error type
func (e *ParseError) Code() ErrorCode { return ErrCodeParseFailure }

// NewDriftError creates a new drift-related error
func NewDriftError(op Operation, maxDrift, observedDrift time.Duration) *DriftError {
	return &DriftError{
		Op:            op,
		MaxDrift:      maxDrift,
		ObservedDrift: observedDrift,
	}
}

// NewCounterOverflowError creates a new counter-overflow error
func NewCounterOverflowError(op Operation, max, current int64) *CounterOverflowError {
	return &CounterOverflowError{
		Op:      op,
		Max:     max,
		Current: current,
	}
}

// NewParseError creates a new parse-related error
func NewParseError(input string, reason ParseReason, cause error) *ParseError {
	return &ParseError{
		Input:  input,
		Reason: reason,
		Err:    cause,
	}
}

// IsDrift checks if an error is a DriftError
func IsDrift(err error) bool {
	var driftErr *DriftError
	return errors.As(err, &driftErr)
}

// IsCounterOverflow checks if an error is a CounterOverflowError
func IsCounterOverflow(err error) bool {
	var overflowErr *CounterOverflowError
	return errors.As(err, &overflowErr)
}

// IsParse checks if an error is a ParseError
func IsParse(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// CodeOf extracts the ErrorCode from any hlc kit error, or "" if the error
// does not carry one.
func CodeOf(err error) ErrorCode {
	type coder interface {
		Code() ErrorCode
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}
