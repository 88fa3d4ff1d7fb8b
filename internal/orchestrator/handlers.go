package orchestrator

import (
	"context"
	"errors"
	"os"
	"unicode/utf8"

	"github.com/Wxl-c137/blindmarker/internal/imagecodec"
	"github.com/Wxl-c137/blindmarker/internal/model"
	"github.com/Wxl-c137/blindmarker/internal/structcodec"
)

// embedStructured embeds payload into one JSON/VAJ/VMI task in place.
// A non-nil skip is a logged-and-tallied failure (§7); a non-nil error
// is an infrastructure fault that aborts the job.
func embedStructured(_ context.Context, t model.FileTask, cfg *model.JobConfig, payload string) (model.SkipReason, bool, error) {
	data, err := os.ReadFile(t.AbsoluteTempPath)
	if err != nil {
		return model.SkipReason{}, false, err
	}
	if !utf8.Valid(data) {
		return model.SkipReason{
			RelativePath: t.RelativePath,
			Code:         model.SkipInvalidUTF8,
			Message:      "file is not valid utf-8",
		}, true, nil
	}

	out, err := structcodec.Embed(data, payload, cfg.EncodingMode, cfg.AESKey, cfg.WatermarkFieldName, cfg.Obfuscate)
	if err != nil {
		if errors.Is(err, structcodec.ErrInvalidJSON) {
			return model.SkipReason{
				RelativePath: t.RelativePath,
				Code:         model.SkipInvalidJSON,
				Message:      err.Error(),
			}, true, nil
		}
		return model.SkipReason{}, false, err
	}

	if err := os.WriteFile(t.AbsoluteTempPath, out, 0o644); err != nil {
		return model.SkipReason{}, false, err
	}
	return model.SkipReason{}, false, nil
}

// embedImage embeds payload into one PNG task in place, unless the job
// restricts embedding to a named selection that excludes this file, in
// which case it passes through untouched (§4.9 "Image selection").
func embedImage(_ context.Context, t model.FileTask, cfg *model.JobConfig, payload string) (model.SkipReason, bool, error) {
	if cfg.ImageSelection != nil {
		if _, selected := cfg.ImageSelection[t.RelativePath]; !selected {
			return model.SkipReason{}, false, nil
		}
	}

	data, err := os.ReadFile(t.AbsoluteTempPath)
	if err != nil {
		return model.SkipReason{}, false, err
	}

	marked, err := imagecodec.Embed(data, payload, cfg.Strength, cfg.FastMode)
	if err != nil {
		code := model.SkipUnsupportedFmt
		switch {
		case errors.Is(err, imagecodec.ErrImageTooSmall):
			code = model.SkipImageTooSmall
		case errors.Is(err, imagecodec.ErrDecodeFailure):
			code = model.SkipDecodeFailure
		}
		return model.SkipReason{
			RelativePath: t.RelativePath,
			Code:         code,
			Message:      err.Error(),
		}, true, nil
	}

	if err := os.WriteFile(t.AbsoluteTempPath, marked, 0o644); err != nil {
		return model.SkipReason{}, false, err
	}
	return model.SkipReason{}, false, nil
}
