package structcodec

import (
	"strings"

	"github.com/Wxl-c137/blindmarker/internal/model"
	"github.com/Wxl-c137/blindmarker/internal/ojson"
	"github.com/Wxl-c137/blindmarker/internal/watermarkcrypto"
)

// Extract walks every object node in doc and returns one finding per
// watermark candidate found under fieldName or the obfuscation magic
// (§4.5 "Extract"). Returned findings have no RelativePath set; the
// caller (the scanner/orchestrator) fills it in. aesKey may be empty,
// in which case any aes-mode candidate is reported with Decrypted=false.
func Extract(doc []byte, fieldName, aesKey string) ([]model.WatermarkFinding, error) {
	root, err := ojson.Parse(doc)
	if err != nil {
		return nil, ErrInvalidJSON
	}
	var candidates []string
	collectCandidates(root, fieldName, &candidates)

	findings := make([]model.WatermarkFinding, 0, len(candidates))
	for _, raw := range candidates {
		findings = append(findings, detectMode(raw, aesKey))
	}
	return findings, nil
}

func collectCandidates(v *ojson.Value, fieldName string, out *[]string) {
	switch v.Kind {
	case ojson.KindObject:
		for _, key := range v.Obj.Keys() {
			val, _ := v.Obj.Get(key)
			if key == fieldName && val.Kind == ojson.KindString {
				*out = append(*out, val.Str)
			} else if s, ok := obfuscatedValue(val); ok {
				*out = append(*out, s)
			} else {
				collectCandidates(val, fieldName, out)
			}
		}
	case ojson.KindArray:
		for _, elem := range v.Arr {
			collectCandidates(elem, fieldName, out)
		}
	}
}

// obfuscatedValue recognizes the [magic, stored] tuple §4.5's
// obfuscation mode writes.
func obfuscatedValue(v *ojson.Value) (string, bool) {
	if v.Kind != ojson.KindArray || len(v.Arr) != 2 {
		return "", false
	}
	marker, stored := v.Arr[0], v.Arr[1]
	if marker.Kind != ojson.KindString || marker.Str != obfuscationMagic {
		return "", false
	}
	if stored.Kind != ojson.KindString {
		return "", false
	}
	return stored.Str, true
}

// detectMode applies §4.5's 3-step mode-detection priority to a
// candidate string.
func detectMode(raw, aesKey string) model.WatermarkFinding {
	if looksLikeMD5Hex(raw) {
		return model.WatermarkFinding{
			DecodedValue: raw,
			ModeDetected: model.ModeMD5,
			Decrypted:    true,
		}
	}
	if blob, ok := watermarkcrypto.LooksLikeBase64Blob(raw); ok {
		f := model.WatermarkFinding{DecodedValue: raw, ModeDetected: model.ModeAES}
		if aesKey != "" {
			if plain, err := watermarkcrypto.DecryptBytes(aesKey, blob); err == nil {
				f.DecodedValue = string(plain)
				f.Decrypted = true
			}
		}
		return f
	}
	return model.WatermarkFinding{
		DecodedValue: raw,
		ModeDetected: model.ModePlaintext,
		Decrypted:    true,
	}
}

func looksLikeMD5Hex(s string) bool {
	if len(s) != 32 {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f'))
	}) == -1
}
