package bitcodec_test

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/Wxl-c137/blindmarker/internal/bitcodec"
	"github.com/Wxl-c137/blindmarker/internal/model"
)

func TestMD5RoundTrip(t *testing.T) {
	bits := bitcodec.EncodeToBits(model.ModeMD5, "hello", nil)
	if len(bits) != 128 {
		t.Fatalf("got %d bits, want 128", len(bits))
	}
	decoded, _, err := bitcodec.DecodeFromBits(model.ModeMD5, bits)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	sum := md5.Sum([]byte("hello"))
	want := hex.EncodeToString(sum[:])
	if decoded != want {
		t.Errorf("got %q, want %q", decoded, want)
	}
}

func TestMD5WrongLength(t *testing.T) {
	_, _, err := bitcodec.DecodeFromBits(model.ModeMD5, make([]int, 64))
	if err != bitcodec.ErrWrongBitCount {
		t.Errorf("got %v, want ErrWrongBitCount", err)
	}
}

func TestPlaintextRoundTrip(t *testing.T) {
	text := "hello world"
	bits := bitcodec.EncodeToBits(model.ModePlaintext, text, []byte(text))
	decoded, raw, err := bitcodec.DecodeFromBits(model.ModePlaintext, bits)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != text {
		t.Errorf("got %q, want %q", decoded, text)
	}
	if string(raw) != text {
		t.Errorf("raw bytes mismatch")
	}
}

func TestPlaintextTooShort(t *testing.T) {
	bits := bitcodec.EncodeToBits(model.ModePlaintext, "abc", []byte("abc"))
	_, _, err := bitcodec.DecodeFromBits(model.ModePlaintext, bits[:10])
	if err != bitcodec.ErrPayloadTooShort {
		t.Errorf("got %v, want ErrPayloadTooShort", err)
	}
}

func TestAESModeReturnsRawBlob(t *testing.T) {
	blob := []byte{1, 2, 3, 4, 5}
	bits := bitcodec.EncodeToBits(model.ModeAES, "", blob)
	_, raw, err := bitcodec.DecodeFromBits(model.ModeAES, bits)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) != len(blob) {
		t.Fatalf("got %d bytes, want %d", len(raw), len(blob))
	}
	for i := range blob {
		if raw[i] != blob[i] {
			t.Errorf("byte %d: got %d, want %d", i, raw[i], blob[i])
		}
	}
}
