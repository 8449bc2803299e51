package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pactlens/pactlens/constants"
	"github.com/pactlens/pactlens/internal/analysis"
	"github.com/pactlens/pactlens/internal/common"
	"github.com/pactlens/pactlens/internal/repository"
	"github.com/pactlens/pactlens/internal/tier"
)

type uploadResponse struct {
	ContractID string                    `json:"contractId"`
	Filename   string                    `json:"filename"`
	Tier       string                    `json:"tier"`
	Analysis   analysis.ContractAnalysis `json:"analysis"`
}

type contractResponse struct {
	ContractID string                     `json:"contractId"`
	Filename   string                     `json:"filename"`
	Format     string                     `json:"format"`
	Tier       string                     `json:"tier"`
	CreatedAt  time.Time                  `json:"createdAt"`
	Analysis   *analysis.ContractAnalysis `json:"analysis,omitempty"`
}

// POST /v1/contracts
// multipart form: "file" (document) + "tier" (subscription tier).
func (s *Service) handleUpload(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, s.cfg.MaxUploadBytes)
	if err := req.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		http.Error(w, "upload too large or malformed", http.StatusRequestEntityTooLarge)
		return nil
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return common.NewAppError("BAD_UPLOAD", "file field is required", common.ErrInvalidInput)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return common.WrapError(err, "read upload")
	}

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		http.Error(w, fmt.Sprintf("unsupported file type %q", ext), http.StatusUnsupportedMediaType)
		return nil
	}
	format := constants.MapExtToFormat(ext)

	tierName := tier.Name(req.FormValue("tier"))
	if tierName == "" {
		tierName = tier.Free
	}

	ctx := req.Context()
	requestID := common.RequestIDFromContext(ctx)

	contractID := uuid.New()
	storageKey := fmt.Sprintf("contracts/%s.%s", contractID, ext)
	if _, err := s.store.Put(ctx, storageKey, data, constants.ContentType(format)); err != nil {
		return common.WrapError(err, "store document")
	}

	extracted, err := s.extractor.Extract(ctx, data, format)
	if err != nil {
		return err // ExtractionError aborts before any completion calls
	}

	result, err := s.pipeline.Analyze(ctx, analysis.Request{
		Text:          extracted.Text,
		Tier:          tierName,
		CorrelationID: requestID,
	})
	if err != nil {
		return common.WrapError(err, "analyze contract")
	}

	rec := &repository.ContractRecord{
		ID:         contractID,
		Filename:   header.Filename,
		Format:     format,
		Tier:       tierName,
		StorageKey: storageKey,
		TextChars:  len(extracted.Text),
	}
	if err := s.contracts.Create(ctx, rec); err != nil {
		return err
	}
	if err := s.analyses.Save(ctx, &repository.AnalysisRecord{
		ContractID: contractID,
		Document:   result,
		Model:      result.Metadata.Model,
		AnalyzedAt: result.Metadata.AnalyzedAt,
	}); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(uploadResponse{
		ContractID: contractID.String(),
		Filename:   header.Filename,
		Tier:       string(tierName),
		Analysis:   result,
	})
}

// GET /v1/contracts/{id}
func (s *Service) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		return common.NewAppError("BAD_ID", "invalid contract id", common.ErrInvalidInput)
	}

	rec, err := s.contracts.GetByID(req.Context(), id)
	if err != nil {
		return err
	}

	resp := contractResponse{
		ContractID: rec.ID.String(),
		Filename:   rec.Filename,
		Format:     string(rec.Format),
		Tier:       string(rec.Tier),
		CreatedAt:  rec.CreatedAt,
	}
	if a, err := s.analyses.GetLatestByContractID(req.Context(), id); err == nil {
		resp.Analysis = &a.Document
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// GET /v1/contracts/{id}/export?format=xlsx|csv|json
func (s *Service) handleExport(w http.ResponseWriter, req *http.Request) error {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		return common.NewAppError("BAD_ID", "invalid contract id", common.ErrInvalidInput)
	}

	rec, err := s.analyses.GetLatestByContractID(req.Context(), id)
	if err != nil {
		return err
	}

	format := req.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	var (
		body        []byte
		contentType string
		filename    string
	)
	switch format {
	case "json":
		body, err = s.exporter.JSON(rec.Document)
		contentType, filename = "application/json", "analysis.json"
	case "csv":
		body, err = s.exporter.CSV(rec.Document)
		contentType, filename = "text/csv", "risk-register.csv"
	case "xlsx":
		body, err = s.exporter.XLSX(rec.Document)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "analysis.xlsx"
	default:
		return common.NewAppError("BAD_FORMAT", fmt.Sprintf("unsupported export format %q", format), common.ErrInvalidInput)
	}
	if err != nil {
		return common.WrapError(err, "render export")
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, err = w.Write(body)
	return err
}

// GET /health
func (s *Service) handleHealth(w http.ResponseWriter, req *http.Request) {
	if s.dbPing != nil {
		if err := s.dbPing(req.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Write([]byte("ok"))
}
