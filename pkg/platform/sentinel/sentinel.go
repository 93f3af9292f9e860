package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about persisted entities, not policy or
// validation failures:
// - ErrNotFound: entity does not exist in the store
// - ErrConflict: write lost to a concurrent conflicting write
// - ErrInvalidState: entity in the wrong state for the requested operation
// - ErrUnavailable: backing store temporarily unreachable
//
// Policy failures (e.g. the deletion authorship rule) are coded domain
// errors from pkg/domain-errors, never sentinels.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
