package coordinator

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TableID is the opaque identifier a writer uses to address a table. It
// is modeled as a UUID-backed type, but the core never interprets its
// structure beyond equality and string formatting.
type TableID uuid.UUID

// NewTableID generates a random TableID.
func NewTableID() TableID {
	return TableID(uuid.New())
}

// ParseTableID parses a string into a TableID.
func ParseTableID(s string) (TableID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return TableID{}, &InvalidArgumentError{Reason: "table_id is not a valid identifier: " + err.Error()}
	}
	return TableID(id), nil
}

func (t TableID) String() string {
	return uuid.UUID(t).String()
}

// FileDescriptor is an opaque carrier for a commit's materialized file
// location. The core never interprets path, size, or mod_time; it only
// constructs path at commit time (see commitFilePath) and carries the
// rest through untouched.
type FileDescriptor struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// commitFilePath constructs the commit file's path at commit time: base =
// table_uri / "_delta_log" / "_commits"; path = base / file_name. Computed
// once at commit time, not at read time, to avoid per-read string work.
func commitFilePath(tableURI, fileName string) string {
	return strings.TrimRight(tableURI, "/") + "/" + path.Join("_delta_log", "_commits", fileName)
}

// CommitRecord is an immutable value representing one ratified commit.
// Once appended to a TableLedger it is never mutated in place; a backfill
// trim stores a fresh copy made by withBackfilled (see ledger.go). The
// disown marker is set when the record is built and never changes.
type CommitRecord struct {
	Version         int64
	FileDescriptor  FileDescriptor
	CommitTimestamp int64
	IsDisown        bool
	IsBackfilled    bool

	// Protocol and Metadata are opaque pass-throughs; the core never
	// interprets their contents.
	Protocol map[string]any
	Metadata map[string]any
}

// withBackfilled returns a copy of the record with IsBackfilled set,
// preserving immutability of the original.
func (c CommitRecord) withBackfilled() CommitRecord {
	c.IsBackfilled = true
	return c
}

// View is the reader-facing projection of a CommitRecord. It deliberately
// omits IsDisown and IsBackfilled, which are internal coordinator state
// not exposed to readers.
type View struct {
	Version         int64          `json:"version"`
	FileDescriptor  FileDescriptor `json:"file_descriptor"`
	CommitTimestamp int64          `json:"commit_timestamp"`
}

func (c CommitRecord) toView() View {
	return View{
		Version:         c.Version,
		FileDescriptor:  c.FileDescriptor,
		CommitTimestamp: c.CommitTimestamp,
	}
}
