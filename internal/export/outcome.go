package export

import (
	"errors"

	"dwcexport/internal/telemetry"
)

var (
	// ErrCancelled reports a run stopped by its context.
	ErrCancelled = errors.New("export run cancelled")
	// ErrRunLocked reports another run holding the export directory lock.
	ErrRunLocked = errors.New("another export run is in progress")
)

// OutcomeKind classifies how one archive ended.
type OutcomeKind int

const (
	Delivered OutcomeKind = iota
	SkippedLowVolume
	SkippedUnchanged
	SkippedMissingSource
	// SkippedNoInput marks a combined archive with no cleanly staged provider to draw from.
	SkippedNoInput
	Cancelled
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Delivered:
		return telemetry.OutcomeDelivered
	case SkippedLowVolume:
		return telemetry.OutcomeLowVolume
	case SkippedUnchanged:
		return telemetry.OutcomeUnchanged
	case SkippedMissingSource:
		return telemetry.OutcomeMissing
	case SkippedNoInput:
		return telemetry.OutcomeNoInput
	case Cancelled:
		return telemetry.OutcomeCancelled
	default:
		return telemetry.OutcomeFailed
	}
}

// Outcome is the result for one archive. Path is set only when Kind is
// Delivered; Err only when Kind is Failed.
type Outcome struct {
	Provider     string
	Kind         OutcomeKind
	Path         string
	Fingerprint  int64
	Observations int64
	Err          error
}

// Skipped reports a soft skip: nothing to deliver and nothing wrong.
func (o Outcome) Skipped() bool {
	return o.Kind == SkippedLowVolume || o.Kind == SkippedUnchanged || o.Kind == SkippedMissingSource || o.Kind == SkippedNoInput
}

func delivered(provider, path string, fingerprint, observations int64) Outcome {
	return Outcome{Provider: provider, Kind: Delivered, Path: path, Fingerprint: fingerprint, Observations: observations}
}

func skipped(provider string, kind OutcomeKind, observations int64) Outcome {
	return Outcome{Provider: provider, Kind: kind, Observations: observations}
}

func cancelled(provider string) Outcome {
	return Outcome{Provider: provider, Kind: Cancelled}
}

func failed(provider string, err error) Outcome {
	return Outcome{Provider: provider, Kind: Failed, Err: err}
}
