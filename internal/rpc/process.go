package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/Wxl-c137/blindmarker/internal/excelreader"
	"github.com/Wxl-c137/blindmarker/internal/model"
)

// processConfig mirrors the nested "config" object in §6's process_archive
// inputs: watermark_source discriminates whether watermark_key carries the
// literal payload text or a path to the .xlsx payload-list workbook, since
// the distilled command table names both fields without spelling out their
// relationship.
type processConfig struct {
	Strength        float64 `json:"strength"`
	WatermarkSource string  `json:"watermark_source"`
	WatermarkKey    string  `json:"watermark_key"`
}

// processArchiveRequest is the body of POST /rpc/process_archive, field
// names taken verbatim from §6's table.
type processArchiveRequest struct {
	ArchivePath    string        `json:"archive_path"`
	Config         processConfig `json:"config"`
	ProcessImages  bool          `json:"process_images"`
	ProcessJSON    bool          `json:"process_json"`
	ProcessVAJ     bool          `json:"process_vaj"`
	ProcessVMI     bool          `json:"process_vmi"`
	OutputDir      string        `json:"output_dir"`
	Obfuscate      bool          `json:"obfuscate"`
	WatermarkMode  string        `json:"watermark_mode"`
	AESKey         string        `json:"aes_key"`
	SelectedImages []string      `json:"selected_images"`
	FastMode       bool          `json:"fast_mode"`
}

type processArchiveResponse struct {
	JobID      string             `json:"job_id"`
	OutputPath string             `json:"output_path"`
	Skipped    []model.SkipReason `json:"skipped"`
}

func (req *processArchiveRequest) toJobConfig() (*model.JobConfig, error) {
	payload, err := req.resolvePayload()
	if err != nil {
		return nil, err
	}

	cfg := &model.JobConfig{
		ArchivePath:  req.ArchivePath,
		Payload:      payload,
		EncodingMode: model.EncodingMode(req.WatermarkMode),
		AESKey:       req.AESKey,
		Obfuscate:    req.Obfuscate,
		TypeMask: model.TypeMask{
			JSON:   req.ProcessJSON,
			VAJ:    req.ProcessVAJ,
			VMI:    req.ProcessVMI,
			Images: req.ProcessImages,
		},
		FastMode:  req.FastMode,
		OutputDir: req.OutputDir,
		Strength:  req.Config.Strength,
	}

	if len(req.SelectedImages) > 0 {
		cfg.ImageSelection = make(map[string]struct{}, len(req.SelectedImages))
		for _, p := range req.SelectedImages {
			cfg.ImageSelection[p] = struct{}{}
		}
	}
	return cfg, nil
}

// resolvePayload turns config.watermark_source/watermark_key into a
// WatermarkPayload: "excel" reads column A of the workbook at
// watermark_key into the row-list form that drives the §4.9 batch
// fan-out; anything else (including the empty string, for callers that
// skip the discriminator) treats watermark_key as the literal payload.
func (req *processArchiveRequest) resolvePayload() (model.WatermarkPayload, error) {
	if req.Config.WatermarkSource == "excel" {
		rows, err := excelreader.ReadColumnA(req.Config.WatermarkKey)
		if err != nil {
			return model.WatermarkPayload{}, err
		}
		return model.WatermarkPayload{Rows: rows}, nil
	}
	return model.WatermarkPayload{Single: req.Config.WatermarkKey}, nil
}

// handleProcessArchive runs process_archive synchronously per §6 (the
// response carries the finished output path), while still publishing
// the full status/scan-summary/detail-progress/image-progress sequence
// on the job's own topic namespace. The job ID scoping those topics is
// generated inside this handler and first reaches the caller in the
// response body, so a caller cannot subscribe to this run's topics
// before the response arrives.
func (s *Server) handleProcessArchive(w http.ResponseWriter, r *http.Request) {
	var req processArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderJSONError(w, http.StatusBadRequest, "InputValidation", "malformed request body")
		return
	}

	cfg, err := req.toJobConfig()
	if err != nil {
		status, code := taxonomyFor(err)
		renderJSONError(w, status, code, err.Error())
		return
	}

	jobID := uuid.NewString()
	sink := s.sinkFor(jobID)

	outputPath, skips, err := s.Orchestrator.ProcessArchive(r.Context(), cfg, sink)
	if err != nil {
		status, code := taxonomyFor(err)
		renderJSONError(w, status, code, err.Error())
		return
	}

	renderJSON(w, http.StatusOK, processArchiveResponse{
		JobID:      jobID,
		OutputPath: outputPath,
		Skipped:    skips,
	})
}
