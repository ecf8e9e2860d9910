package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairlead/cpgen/internal/charter"
	"github.com/fairlead/cpgen/internal/extract"
	"github.com/fairlead/cpgen/internal/generate"
	"github.com/fairlead/cpgen/internal/match"
	"github.com/fairlead/cpgen/internal/recap"
	"github.com/fairlead/cpgen/internal/store"
	"github.com/fairlead/cpgen/internal/template"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.New(t.TempDir(), 0, 0, zerolog.Nop())
	require.NoError(t, err)

	gen := generate.NewGenerator(
		extract.NewExtractor(0),
		recap.NewExtractor(),
		template.NewLocator(template.DefaultContextRadius),
		match.NewMapper(match.DefaultSimilarityThreshold, true),
		generate.NewValidator(generate.DefaultConfidenceThreshold),
		zerolog.Nop(),
	)
	return New("127.0.0.1:0", st, gen, zerolog.Nop()).http.Handler
}

func upload(t *testing.T, handler http.Handler, route, filename, content string) string {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, route, &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestHealthz(t *testing.T) {
	handler := newTestServer(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUploadAndListRoundTrip(t *testing.T) {
	handler := newTestServer(t)
	id := upload(t, handler, "/api/recaps", "recap.txt", "Vessel: OCEAN STAR")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recaps", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{id}, resp.IDs)
}

func TestListEmptyBucketReturnsEmptyArray(t *testing.T) {
	handler := newTestServer(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/templates", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ids":[]}`, rec.Body.String())
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	handler := newTestServer(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "payload.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/templates", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateFlow(t *testing.T) {
	handler := newTestServer(t)
	templateID := upload(t, handler, "/api/templates", "gencon.txt",
		"Vessel: [vessel name]\nCargo: [cargo]\n")
	recapID := upload(t, handler, "/api/recaps", "recap.txt",
		"Vessel: OCEAN STAR\nCargo: 50000 MT Iron Ore")

	payload, err := json.Marshal(map[string]string{
		"template_id":   templateID,
		"recap_id":      recapID,
		"output_format": "text",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(payload)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		DocumentID        string               `json:"document_id"`
		ReportID          string               `json:"report_id"`
		Report            charter.ChangeReport `json:"report"`
		CompletenessScore float64              `json:"completeness_score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.DocumentID)
	require.NotEmpty(t, resp.ReportID)
	assert.InDelta(t, 1.0, resp.CompletenessScore, 1e-9)
	assert.Equal(t, "OCEAN STAR", resp.Report.ExtractedTerms["vessel"])

	// Generated document is retrievable and carries the substituted values.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/"+resp.DocumentID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OCEAN STAR")

	// So is the change report.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/"+resp.ReportID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report charter.ChangeReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, resp.Report.GenerationSummary.TemplateFile, report.GenerationSummary.TemplateFile)
}

func TestGenerateValidatesRequestBody(t *testing.T) {
	handler := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader([]byte("{"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader([]byte(`{"template_id":""}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateUnknownIDsReturnNotFound(t *testing.T) {
	handler := newTestServer(t)
	payload := []byte(`{"template_id":"ghost.txt","recap_id":"ghost.txt"}`)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(payload)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportNotFound(t *testing.T) {
	handler := newTestServer(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/missing.json", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
