package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalyankadiyala/commitcoord/internal/coordinator"
)

func newTestServer() (*Server, coordinator.TableID) {
	coord := coordinator.New(10)
	return NewServer(coord), coordinator.NewTableID()
}

func doCommit(t *testing.T, s *Server, id coordinator.TableID, body commitRequestDTO) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/tables/"+id.String()+"/commits", bytes.NewReader(b))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHandleCommit_Success(t *testing.T) {
	s, id := newTestServer()

	rec := doCommit(t, s, id, commitRequestDTO{
		TableURI: "s3://bucket/table",
		Payload:  &commitPayloadDTO{FileName: "f.json", Version: 0},
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleCommit_InvalidTableID(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/tables/not-a-uuid/commits", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCommit_ConflictMapsTo409(t *testing.T) {
	s, id := newTestServer()
	doCommit(t, s, id, commitRequestDTO{TableURI: "s3://bucket/table", Payload: &commitPayloadDTO{FileName: "f.json", Version: 0}})

	rec := doCommit(t, s, id, commitRequestDTO{TableURI: "s3://bucket/table", Payload: &commitPayloadDTO{FileName: "f.json", Version: 5}})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleGetCommits_RequiresTableURI(t *testing.T) {
	s, id := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/tables/"+id.String()+"/commits", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetCommits_Success(t *testing.T) {
	s, id := newTestServer()
	doCommit(t, s, id, commitRequestDTO{TableURI: "s3://bucket/table", Payload: &commitPayloadDTO{FileName: "f.json", Version: 0}})

	req := httptest.NewRequest(http.MethodGet, "/tables/"+id.String()+"/commits?table_uri=s3://bucket/table", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp coordinator.GetCommitsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.LastRatifiedVersion)
	require.Len(t, resp.Commits, 1)
}

func TestHandleListTablesAndStats(t *testing.T) {
	s, id := newTestServer()
	doCommit(t, s, id, commitRequestDTO{TableURI: "s3://bucket/table", Payload: &commitPayloadDTO{FileName: "f.json", Version: 0}})

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCommit_RateLimited(t *testing.T) {
	coord := coordinator.New(10)
	s := NewServer(coord, WithRateLimit(1, 1))
	id := coordinator.NewTableID()

	first := doCommit(t, s, id, commitRequestDTO{TableURI: "s3://bucket/table", Payload: &commitPayloadDTO{FileName: "f.json", Version: 0}})
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := doCommit(t, s, id, commitRequestDTO{TableURI: "s3://bucket/table", Payload: &commitPayloadDTO{FileName: "f.json", Version: 1}})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
