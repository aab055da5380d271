package coordinator

import "fmt"

// ErrorCode is a stable, string-typed taxonomy for coordinator errors,
// for callers that want to branch on a code instead of a type switch.
type ErrorCode string

const (
	CodeInvalidArgument    ErrorCode = "INVALID_ARGUMENT"
	CodeInvalidTargetTable ErrorCode = "INVALID_TARGET_TABLE"
	CodeCommitLimitReached ErrorCode = "COMMIT_LIMIT_REACHED"
	CodeCommitConflict     ErrorCode = "COMMIT_CONFLICT"
	CodeTableDisowned      ErrorCode = "TABLE_DISOWNED"
	CodeIoFailure          ErrorCode = "IO_FAILURE"
)

// InvalidArgumentError indicates a malformed or inconsistent commit request:
// a missing required field, or a partial commit payload.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

func (e *InvalidArgumentError) Code() ErrorCode { return CodeInvalidArgument }

// InvalidTargetTableError indicates the request's table_uri does not match
// the ledger's recorded table_uri.
type InvalidTargetTableError struct {
	TableID  TableID
	Expected string
	Actual   string
}

func (e *InvalidTargetTableError) Error() string {
	return fmt.Sprintf("invalid target table %s: expected uri %q, got %q", e.TableID, e.Expected, e.Actual)
}

func (e *InvalidTargetTableError) Code() ErrorCode { return CodeInvalidTargetTable }

// CommitLimitReachedError indicates the unbackfilled window is full.
// Retryable after backfill progress is reported.
type CommitLimitReachedError struct {
	TableID TableID
	Limit   int
}

func (e *CommitLimitReachedError) Error() string {
	return fmt.Sprintf("commit limit reached for table %s: window size %d", e.TableID, e.Limit)
}

func (e *CommitLimitReachedError) Code() ErrorCode { return CodeCommitLimitReached }

func (e *CommitLimitReachedError) Retryable() bool { return true }

// CommitConflictError indicates a version mismatch against an active
// ledger's expected next version. Retryable iff the caller's version was
// lower than expected (the caller is behind and can retry with the
// current version); non-retryable when the caller is ahead, since that
// points at a logic error or a missed intermediate commit.
type CommitConflictError struct {
	TableID  TableID
	Expected int64
	Got      int64
}

func (e *CommitConflictError) Error() string {
	return fmt.Sprintf("commit conflict on table %s: expected version %d, got %d", e.TableID, e.Expected, e.Got)
}

func (e *CommitConflictError) Code() ErrorCode { return CodeCommitConflict }

// Retryable reports whether the caller is behind (version too low) and can
// retry against the ledger's current state.
func (e *CommitConflictError) Retryable() bool { return e.Got < e.Expected }

// Conflict mirrors Retryable: both flags equal request.version < expected,
// since a caller behind the ledger is exactly the case that's both
// retryable and, from the caller's point of view, a conflict to resolve.
func (e *CommitConflictError) Conflict() bool { return e.Got < e.Expected }

// TableDisownedError indicates the ledger's last commit carries the
// disown marker: the coordinator has relinquished control of the table
// and rejects every further request that carries a commit payload. A
// backfill-only acknowledgement is not rejected and still trims the
// ledger.
type TableDisownedError struct {
	TableID TableID
}

func (e *TableDisownedError) Error() string {
	return fmt.Sprintf("table %s has been disowned by this coordinator", e.TableID)
}

func (e *TableDisownedError) Code() ErrorCode { return CodeTableDisowned }

// IoFailureError wraps a fault-injection trigger. Before is true when the
// flag observed was throw_before_commit (safe to retry, ledger untouched);
// false means throw_after_commit fired (the commit may already be durably
// appended).
type IoFailureError struct {
	Before bool
}

func (e *IoFailureError) Error() string {
	if e.Before {
		return "io failure: throw_before_commit fault injected"
	}
	return "io failure: throw_after_commit fault injected"
}

func (e *IoFailureError) Code() ErrorCode { return CodeIoFailure }

// Retryable reports whether the caller can safely retry. A before-commit
// failure never touched the ledger; an after-commit failure may have
// durably appended the commit, so blind retry could double-commit.
func (e *IoFailureError) Retryable() bool { return e.Before }
