package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pactlens/pactlens/constants"
	"github.com/pactlens/pactlens/internal/analysis"
	"github.com/pactlens/pactlens/internal/common"
	"github.com/pactlens/pactlens/internal/export"
	"github.com/pactlens/pactlens/internal/extract"
	"github.com/pactlens/pactlens/internal/repository"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(ctx context.Context, data []byte, format constants.FileFormat) (extract.Result, error) {
	if f.err != nil {
		return extract.Result{}, f.err
	}
	return extract.Result{Text: f.text, Metadata: map[string]string{"format": string(format)}}, nil
}

type fakeAnalyzer struct {
	lastReq analysis.Request
	result  analysis.ContractAnalysis
	err     error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req analysis.Request) (analysis.ContractAnalysis, error) {
	f.lastReq = req
	if f.err != nil {
		return analysis.ContractAnalysis{}, f.err
	}
	return f.result, nil
}

type fakeStore struct {
	keys []string
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.keys = append(f.keys, key)
	return key, nil
}

type memContracts struct {
	recs map[uuid.UUID]*repository.ContractRecord
}

func newMemContracts() *memContracts {
	return &memContracts{recs: make(map[uuid.UUID]*repository.ContractRecord)}
}

func (m *memContracts) Create(ctx context.Context, rec *repository.ContractRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.recs[rec.ID] = rec
	return nil
}

func (m *memContracts) GetByID(ctx context.Context, id uuid.UUID) (*repository.ContractRecord, error) {
	rec, ok := m.recs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return rec, nil
}

type memAnalyses struct {
	recs map[uuid.UUID]*repository.AnalysisRecord
}

func newMemAnalyses() *memAnalyses {
	return &memAnalyses{recs: make(map[uuid.UUID]*repository.AnalysisRecord)}
}

func (m *memAnalyses) Save(ctx context.Context, rec *repository.AnalysisRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	m.recs[rec.ContractID] = rec
	return nil
}

func (m *memAnalyses) GetLatestByContractID(ctx context.Context, contractID uuid.UUID) (*repository.AnalysisRecord, error) {
	rec, ok := m.recs[contractID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return rec, nil
}

type testHarness struct {
	handler   http.Handler
	analyzer  *fakeAnalyzer
	store     *fakeStore
	contracts *memContracts
	analyses  *memAnalyses
}

func newHarness(t *testing.T, extractor TextExtractor) *testHarness {
	t.Helper()
	if extractor == nil {
		extractor = fakeExtractor{text: "This Agreement is made between Acme Corp and Globex Inc."}
	}
	h := &testHarness{
		analyzer: &fakeAnalyzer{result: analysis.ContractAnalysis{
			Summary:            "A short services agreement.",
			KeyParties:         analysis.KeyParties{Party1: "Acme Corp", Party2: "Globex Inc"},
			Obligations:        []string{},
			RiskFlags:          []analysis.RiskFinding{},
			ClauseExplanations: []analysis.ClauseExplanation{},
			Metadata: analysis.Metadata{
				AnalyzedAt: time.Now().UTC(),
				Model:      "stub-model",
			},
		}},
		store:     &fakeStore{},
		contracts: newMemContracts(),
		analyses:  newMemAnalyses(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, Config{}, extractor, h.analyzer, h.store,
		h.contracts, h.analyses, export.NewService(logger), nil)
	h.handler = NewRouter(svc)
	return h
}

func uploadRequest(t *testing.T, filename, tierName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if tierName != "" {
		if err := mw.WriteField("tier", tierName); err != nil {
			t.Fatalf("write tier field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/contracts", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHappyPath(t *testing.T) {
	h := newHarness(t, nil)

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, uploadRequest(t, "msa.txt", "pro", []byte("contract body")))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tier != "pro" {
		t.Errorf("tier = %q, want pro", resp.Tier)
	}
	if resp.Analysis.KeyParties.Party1 != "Acme Corp" {
		t.Errorf("analysis not returned: %+v", resp.Analysis)
	}
	if h.analyzer.lastReq.Tier != "pro" {
		t.Errorf("pipeline saw tier %q", h.analyzer.lastReq.Tier)
	}
	if h.analyzer.lastReq.CorrelationID == "" {
		t.Error("request id not propagated as correlation id")
	}
	if len(h.store.keys) != 1 || !strings.HasPrefix(h.store.keys[0], "contracts/") {
		t.Errorf("document not stored: %v", h.store.keys)
	}

	id, err := uuid.Parse(resp.ContractID)
	if err != nil {
		t.Fatalf("contract id: %v", err)
	}
	if _, ok := h.contracts.recs[id]; !ok {
		t.Error("contract record not persisted")
	}
	if _, ok := h.analyses.recs[id]; !ok {
		t.Error("analysis record not persisted")
	}
}

func TestUploadDefaultsToFreeTier(t *testing.T) {
	h := newHarness(t, nil)

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, uploadRequest(t, "nda.txt", "", []byte("x")))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if h.analyzer.lastReq.Tier != "free" {
		t.Errorf("tier = %q, want free", h.analyzer.lastReq.Tier)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	h := newHarness(t, nil)

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, uploadRequest(t, "contract.exe", "pro", []byte("x")))

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
	if len(h.store.keys) != 0 {
		t.Error("rejected upload must not be stored")
	}
}

func TestUploadRequiresFileField(t *testing.T) {
	h := newHarness(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("tier", "pro")
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/v1/contracts", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadExtractionFailureIs422(t *testing.T) {
	h := newHarness(t, fakeExtractor{err: &extract.ExtractionError{
		Format: constants.PDF,
		Cause:  io.ErrUnexpectedEOF,
	}})

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, uploadRequest(t, "bad.pdf", "pro", []byte("junk")))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if len(h.analyses.recs) != 0 {
		t.Error("no analysis should be persisted when extraction fails")
	}
}

func TestGetContract(t *testing.T) {
	h := newHarness(t, nil)

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, uploadRequest(t, "msa.docx", "business", []byte("x")))
	var created uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode upload: %v", err)
	}

	rec = httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/contracts/"+created.ContractID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp contractResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if resp.Filename != "msa.docx" || resp.Format != "DOCX" || resp.Tier != "business" {
		t.Errorf("unexpected record: %+v", resp)
	}
	if resp.Analysis == nil || resp.Analysis.Summary == "" {
		t.Error("latest analysis missing from response")
	}
}

func TestGetUnknownContractIs404(t *testing.T) {
	h := newHarness(t, nil)

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/contracts/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/contracts/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed id", rec.Code)
	}
}

func TestExportFormats(t *testing.T) {
	h := newHarness(t, nil)

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, uploadRequest(t, "msa.txt", "pro", []byte("x")))
	var created uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	base := "/v1/contracts/" + created.ContractID + "/export"

	cases := []struct {
		query       string
		contentType string
	}{
		{"", "application/json"},
		{"?format=json", "application/json"},
		{"?format=csv", "text/csv"},
		{"?format=xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+c.query, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d", c.query, rec.Code)
			continue
		}
		if ct := rec.Header().Get("Content-Type"); ct != c.contentType {
			t.Errorf("%s: content type = %q, want %q", c.query, ct, c.contentType)
		}
		if rec.Header().Get("Content-Disposition") == "" {
			t.Errorf("%s: missing content disposition", c.query)
		}
	}

	rec = httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+"?format=docx", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format: status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t, nil)

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
