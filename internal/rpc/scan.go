package rpc

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/Wxl-c137/blindmarker/internal/model"
)

type scanAllWatermarksRequest struct {
	ArchivePath string `json:"archive_path"`
	AESKey      string `json:"aes_key"`
	ScanImages  bool   `json:"scan_images"`
}

type scanAllWatermarksResponse struct {
	JSONFindings    []model.WatermarkFinding `json:"json_findings"`
	ImageFindings   []model.ImageFinding     `json:"image_findings"`
	ScannedPNGCount int                      `json:"scanned_png_count"`
}

// handleScanAllWatermarks implements scan_all_watermarks_in_archive (§6).
func (s *Server) handleScanAllWatermarks(w http.ResponseWriter, r *http.Request) {
	var req scanAllWatermarksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderJSONError(w, http.StatusBadRequest, "InputValidation", "malformed request body")
		return
	}
	if req.ArchivePath == "" {
		renderJSONError(w, http.StatusBadRequest, "InputValidation", "archive_path is required")
		return
	}

	result, err := s.Orchestrator.ScanAllWatermarks(r.Context(), req.ArchivePath, req.AESKey, req.ScanImages)
	if err != nil {
		status, code := taxonomyFor(err)
		renderJSONError(w, status, code, err.Error())
		return
	}

	renderJSON(w, http.StatusOK, scanAllWatermarksResponse{
		JSONFindings:    result.JSONFindings,
		ImageFindings:   result.ImageFindings,
		ScannedPNGCount: result.ScannedPNGCount,
	})
}

type listImagesRequest struct {
	ArchivePath string `json:"archive_path"`
}

type listImagesResponse struct {
	Images []string `json:"images"`
}

// handleListImages implements list_images_in_archive (§6).
func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	var req listImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderJSONError(w, http.StatusBadRequest, "InputValidation", "malformed request body")
		return
	}
	if req.ArchivePath == "" {
		renderJSONError(w, http.StatusBadRequest, "InputValidation", "archive_path is required")
		return
	}

	images, err := s.Orchestrator.ListImagesInArchive(req.ArchivePath)
	if err != nil {
		status, code := taxonomyFor(err)
		renderJSONError(w, status, code, err.Error())
		return
	}

	renderJSON(w, http.StatusOK, listImagesResponse{Images: images})
}

type cpuCountResponse struct {
	CPUCount int `json:"cpu_count"`
}

// handleCPUCount implements get_cpu_count (§6).
func (s *Server) handleCPUCount(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, cpuCountResponse{CPUCount: runtime.NumCPU()})
}
