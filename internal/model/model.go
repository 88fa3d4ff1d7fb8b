// Package model holds the data types shared across the watermarking
// pipeline: job configuration, scan results, per-file work items, and
// the findings produced by extraction.
package model

// EncodingMode is a closed set of ways a payload string is turned into
// the bytes actually stored in an image or a JSON document.
type EncodingMode string

const (
	ModeMD5       EncodingMode = "md5"
	ModePlaintext EncodingMode = "plaintext"
	ModeAES       EncodingMode = "aes"
)

func (m EncodingMode) Valid() bool {
	switch m {
	case ModeMD5, ModePlaintext, ModeAES:
		return true
	default:
		return false
	}
}

// FileType classifies a scanned archive member.
type FileType string

const (
	TypeJSON  FileType = "json"
	TypeVAJ   FileType = "vaj"
	TypeVMI   FileType = "vmi"
	TypePNG   FileType = "png"
	TypeJPEG  FileType = "jpeg"
	TypeOther FileType = "other"
)

// TypeMask selects which member types a job should touch.
type TypeMask struct {
	JSON   bool
	VAJ    bool
	VMI    bool
	Images bool
}

// Any reports whether at least one bit is set, per JobConfig's invariant.
func (m TypeMask) Any() bool {
	return m.JSON || m.VAJ || m.VMI || m.Images
}

// Allows reports whether the mask permits processing of the given file type.
func (m TypeMask) Allows(t FileType) bool {
	switch t {
	case TypeJSON:
		return m.JSON
	case TypeVAJ:
		return m.VAJ
	case TypeVMI:
		return m.VMI
	case TypePNG:
		return m.Images
	default:
		return false
	}
}

// WatermarkPayload is either a single string (every file gets the same
// mark) or an ordered list of strings, one per spreadsheet row, driving
// the batch fan-out of §4.9.
type WatermarkPayload struct {
	Single string
	Rows   []string
}

// IsList reports whether this payload drives the Excel fan-out.
func (p WatermarkPayload) IsList() bool {
	return p.Rows != nil
}

// Empty reports whether the payload carries no usable text, which
// JobConfig validation rejects.
func (p WatermarkPayload) Empty() bool {
	if p.IsList() {
		return len(p.Rows) == 0
	}
	return p.Single == ""
}

// JobConfig describes one watermarking job end to end. It is immutable
// once constructed; Validate must be called before use.
type JobConfig struct {
	ArchivePath        string
	Payload            WatermarkPayload
	EncodingMode       EncodingMode
	AESKey             string
	WatermarkFieldName string
	Obfuscate          bool
	TypeMask           TypeMask
	ImageSelection     map[string]struct{} // nil means "all PNGs eligible"
	FastMode           bool
	OutputDir          string
	Strength           float64 // QIM embed alpha in [0.1, 1.0]; 0 means "use default"
}

// Validate checks the invariants listed in spec §3.
func (c *JobConfig) Validate() error {
	if c.ArchivePath == "" {
		return ErrMissingArchive
	}
	if !c.EncodingMode.Valid() {
		return ErrInvalidEncodingMode
	}
	if c.EncodingMode == ModeAES && c.AESKey == "" {
		return ErrMissingAESKey
	}
	if !c.TypeMask.Any() {
		return ErrNoTypeSelected
	}
	if c.Payload.Empty() {
		return ErrEmptyPayload
	}
	if c.WatermarkFieldName == "" {
		c.WatermarkFieldName = "_watermark"
	}
	if c.Strength == 0 {
		c.Strength = 0.5
	}
	return nil
}

// ScanSummary is the per-type member count emitted once after extraction.
type ScanSummary struct {
	JSONCount  int
	VAJCount   int
	VMICount   int
	ImageCount int
}

// FileTask is one unit of work discovered by the scanner and consumed by
// a type-group worker.
type FileTask struct {
	RelativePath        string
	AbsoluteTempPath    string
	Type                FileType
	AssignedPayloadText string
}

// WatermarkFinding is a mark recovered from a structured-data file.
type WatermarkFinding struct {
	RelativePath string
	DecodedValue string
	ModeDetected EncodingMode
	Decrypted    bool
}

// ImageFinding is a mark recovered from an image.
type ImageFinding struct {
	RelativePath string
	DecodedText  string
}

// SkipReason records a per-file failure that did not abort the job,
// satisfying §7's "logged and tallied, job still succeeds" rule.
type SkipReason struct {
	RelativePath string
	Code         string
	Message      string
}
