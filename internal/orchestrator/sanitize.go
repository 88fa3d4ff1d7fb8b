package orchestrator

import (
	"fmt"
	"strings"
)

// reservedPathChars replaces characters that are unsafe in a directory
// name on at least one common filesystem (§4.9 "Output directory").
var reservedPathChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", "\"", "_",
	"/", "_", "\\", "_", "|", "_", "?", "_", "*", "_",
)

const maxPayloadDirLen = 128

// payloadDirName turns a payload row's text into a safe sibling
// directory name, falling back to row_<N> (1-indexed) when the
// sanitized result is empty.
func payloadDirName(payload string, rowIndex int) string {
	s := reservedPathChars.Replace(payload)
	if runes := []rune(s); len(runes) > maxPayloadDirLen {
		s = string(runes[:maxPayloadDirLen])
	}
	if s == "" {
		return fmt.Sprintf("row_%d", rowIndex+1)
	}
	return s
}
