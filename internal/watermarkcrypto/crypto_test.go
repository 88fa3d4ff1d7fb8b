package watermarkcrypto_test

import (
	"testing"

	"github.com/Wxl-c137/blindmarker/internal/watermarkcrypto"
)

func TestRoundTrip(t *testing.T) {
	blob, err := watermarkcrypto.Encrypt("correct horse", []byte("secret"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	plain, err := watermarkcrypto.Decrypt("correct horse", blob)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(plain) != "secret" {
		t.Errorf("got %q, want %q", plain, "secret")
	}
}

func TestWrongKeyFailsWithTagMismatch(t *testing.T) {
	blob, err := watermarkcrypto.Encrypt("correct horse", []byte("secret"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	_, err = watermarkcrypto.Decrypt("wrong passphrase", blob)
	if err != watermarkcrypto.ErrTagMismatch {
		t.Errorf("got %v, want ErrTagMismatch", err)
	}
}

func TestMalformedBase64(t *testing.T) {
	_, err := watermarkcrypto.Decrypt("key", "not base64!!!")
	if err != watermarkcrypto.ErrMalformedBase64 {
		t.Errorf("got %v, want ErrMalformedBase64", err)
	}
}

func TestFreshNoncePerCall(t *testing.T) {
	a, _ := watermarkcrypto.Encrypt("k", []byte("same plaintext"))
	b, _ := watermarkcrypto.Encrypt("k", []byte("same plaintext"))
	if a == b {
		t.Errorf("expected distinct ciphertexts from fresh nonces")
	}
}
