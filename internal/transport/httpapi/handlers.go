package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kalyankadiyala/commitcoord/internal/coordinator"
)

// commitPayloadDTO mirrors coordinator.CommitPayload on the wire.
type commitPayloadDTO struct {
	FileName        string `json:"file_name"`
	Version         int64  `json:"version"`
	FileSize        int64  `json:"file_size"`
	FileModTimeUnix int64  `json:"file_mod_time_unix"`
	CommitTimestamp int64  `json:"commit_timestamp"`
}

// commitRequestDTO is the JSON body accepted by POST /tables/{id}/commits.
type commitRequestDTO struct {
	TableURI                   string            `json:"table_uri"`
	Payload                    *commitPayloadDTO `json:"payload,omitempty"`
	LastKnownBackfilledVersion *int64            `json:"last_known_backfilled_version,omitempty"`
	IsDisown                   bool              `json:"is_disown,omitempty"`
	Protocol                   map[string]any    `json:"protocol,omitempty"`
	Metadata                   map[string]any    `json:"metadata,omitempty"`
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	id, err := parseTableID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if !s.allow(id) {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded for this table"})
		return
	}

	var dto commitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req := coordinator.CommitRequest{
		TableID:                    id,
		TableURI:                   dto.TableURI,
		LastKnownBackfilledVersion: dto.LastKnownBackfilledVersion,
		IsDisown:                   dto.IsDisown,
		Protocol:                   dto.Protocol,
		Metadata:                   dto.Metadata,
	}
	if dto.Payload != nil {
		req.Payload = &coordinator.CommitPayload{
			FileName:        dto.Payload.FileName,
			Version:         dto.Payload.Version,
			FileSize:        dto.Payload.FileSize,
			FileModTimeUnix: dto.Payload.FileModTimeUnix,
			CommitTimestamp: dto.Payload.CommitTimestamp,
		}
	}

	if err := s.coord.Commit(req); err != nil {
		writeCoordinatorError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetCommits(w http.ResponseWriter, r *http.Request) {
	id, err := parseTableID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tableURI := r.URL.Query().Get("table_uri")
	if tableURI == "" {
		writeError(w, http.StatusBadRequest, errors.New("table_uri query parameter is required"))
		return
	}

	start, err := parseOptionalInt64(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	end, err := parseOptionalInt64(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := s.coord.GetCommits(id, tableURI, start, end)
	if err != nil {
		writeCoordinatorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// faultRequestDTO toggles the coordinator's one-shot fault-injection
// hooks, for exercising caller retry logic in tests against a running
// coordinator.
type faultRequestDTO struct {
	ThrowBeforeCommit *bool `json:"throw_before_commit,omitempty"`
	ThrowAfterCommit  *bool `json:"throw_after_commit,omitempty"`
}

func (s *Server) handleSetFault(w http.ResponseWriter, r *http.Request) {
	var dto faultRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if dto.ThrowBeforeCommit != nil {
		s.coord.SetThrowBeforeCommit(*dto.ThrowBeforeCommit)
	}
	if dto.ThrowAfterCommit != nil {
		s.coord.SetThrowAfterCommit(*dto.ThrowAfterCommit)
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseTableID(r *http.Request) (coordinator.TableID, error) {
	return coordinator.ParseTableID(mux.Vars(r)["id"])
}

func parseOptionalInt64(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeCoordinatorError maps a coordinator error to an HTTP status by its
// typed error code, falling back to 500 for anything unrecognized.
func writeCoordinatorError(w http.ResponseWriter, err error) {
	type coded interface{ Code() coordinator.ErrorCode }

	status := http.StatusInternalServerError
	var c coded
	if errors.As(err, &c) {
		switch c.Code() {
		case coordinator.CodeInvalidArgument:
			status = http.StatusBadRequest
		case coordinator.CodeInvalidTargetTable:
			status = http.StatusConflict
		case coordinator.CodeCommitLimitReached:
			status = http.StatusTooManyRequests
		case coordinator.CodeCommitConflict:
			status = http.StatusConflict
		case coordinator.CodeTableDisowned:
			status = http.StatusGone
		case coordinator.CodeIoFailure:
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
