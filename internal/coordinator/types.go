package coordinator

// CommitPayload carries the fields describing a single commit file. All
// five fields must be present together, or none at all — see
// CommitRequest.validate.
type CommitPayload struct {
	FileName        string
	Version         int64
	FileSize        int64
	FileModTimeUnix int64
	CommitTimestamp int64
}

// CommitRequest is the value a writer submits to Commit: a new commit
// file, a backfill acknowledgement, or both at once.
type CommitRequest struct {
	TableID  TableID
	TableURI string

	// Payload is optional: a request may carry only
	// LastKnownBackfilledVersion (a standalone backfill acknowledgement).
	Payload *CommitPayload

	// LastKnownBackfilledVersion, when present, tells the coordinator
	// that all versions up to and including this one are now durably
	// materialized externally.
	LastKnownBackfilledVersion *int64

	IsDisown bool

	Protocol map[string]any
	Metadata map[string]any
}

// validate enforces the request's shape preconditions. Failing any of
// them yields an InvalidArgumentError, never a commit-failed error —
// these are checked before the request ever reaches a ledger.
func (r *CommitRequest) validate() error {
	if r.TableURI == "" {
		return &InvalidArgumentError{Reason: "table_uri is required"}
	}

	hasPayload := r.Payload != nil
	hasBackfill := r.LastKnownBackfilledVersion != nil

	if !hasPayload && !hasBackfill {
		return &InvalidArgumentError{Reason: "at least one of commit payload or last_known_backfilled_version is required"}
	}

	if hasPayload {
		p := r.Payload
		if p.FileName == "" {
			return &InvalidArgumentError{Reason: "file_name is required when a commit payload is present"}
		}
		// Version, FileSize, FileModTimeUnix, and CommitTimestamp are
		// plain int64s with no sentinel for "absent" distinct from zero;
		// FileName is the payload's required marker field, so the
		// payload as a whole is validated all-or-nothing.
	}

	return nil
}

// GetCommitsResponse is the tuple returned by get_commits: the current
// unbackfilled window (possibly empty) paired with the last ratified
// version (-1 if the table has never been committed to this coordinator).
type GetCommitsResponse struct {
	Commits             []View `json:"commits"`
	LastRatifiedVersion int64  `json:"last_ratified_version"`
}
