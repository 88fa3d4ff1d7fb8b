// Package structcodec implements the structured-data watermarking codec
// (C5): embed/extract over JSON-like trees (JSON, VAJ, VMI — identical
// handling, classification is by file extension elsewhere) with three
// encoding modes and an obfuscation mode that hides the watermark field
// under a random name inserted beside an existing sibling.
package structcodec

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"math/rand/v2"

	"github.com/Wxl-c137/blindmarker/internal/model"
	"github.com/Wxl-c137/blindmarker/internal/ojson"
	"github.com/Wxl-c137/blindmarker/internal/watermarkcrypto"
)

// obfuscationMagic marks an obfuscated watermark's stored tuple so
// extraction can find it by value shape rather than by key name (§4.5).
const obfuscationMagic = "bw1\x00"

var (
	// ErrInvalidJSON is returned when the document doesn't parse.
	ErrInvalidJSON = errors.New("structcodec: not a well-formed json document")
	// ErrInvalidUTF8 identifies a non-UTF-8 input file. Embed and Extract
	// do not check UTF-8 and never return it.
	ErrInvalidUTF8 = errors.New("structcodec: input is not valid utf-8")
)

// Embed parses doc, computes the stored value for payload under mode,
// attaches it to the first top-level object (wrapping a bare top-level
// array if no object exists anywhere in the document), and serializes
// the result back preserving key order (§4.5 "Embed").
func Embed(doc []byte, payload string, mode model.EncodingMode, aesKey, fieldName string, obfuscate bool) ([]byte, error) {
	root, err := ojson.Parse(doc)
	if err != nil {
		return nil, ErrInvalidJSON
	}

	stored, err := storedValue(mode, payload, aesKey)
	if err != nil {
		return nil, err
	}

	target, wrapped := attachmentTarget(root)
	if obfuscate {
		embedObfuscated(target, stored)
	} else {
		target.Set(fieldName, ojson.String(stored))
	}

	out := wrapped
	if out == nil {
		out = root
	}
	return ojson.Marshal(out)
}

// storedValue computes the value stored in the document under mode,
// per §3's EncodingMode rules.
func storedValue(mode model.EncodingMode, payload, aesKey string) (string, error) {
	switch mode {
	case model.ModeMD5:
		sum := md5.Sum([]byte(payload))
		return hex.EncodeToString(sum[:]), nil
	case model.ModeAES:
		return watermarkcrypto.Encrypt(aesKey, []byte(payload))
	default:
		return payload, nil
	}
}

// attachmentTarget resolves §4.5's "attach to root, or the first
// top-level object in depth-first order, or a synthetic wrapper"
// rule. wrapped is non-nil only when a new wrapper Value was created
// (a bare top-level array with no object anywhere inside it).
func attachmentTarget(root *ojson.Value) (target *ojson.Object, wrapped *ojson.Value) {
	if root.Kind == ojson.KindObject {
		return root.Obj, nil
	}
	if obj := findFirstObject(root); obj != nil {
		return obj, nil
	}
	wrapperObj := ojson.NewObject()
	wrapperObj.Set("_", root)
	return wrapperObj, ojson.ObjectValue(wrapperObj)
}

func findFirstObject(v *ojson.Value) *ojson.Object {
	switch v.Kind {
	case ojson.KindObject:
		return v.Obj
	case ojson.KindArray:
		for _, elem := range v.Arr {
			if obj := findFirstObject(elem); obj != nil {
				return obj
			}
		}
	}
	return nil
}

// embedObfuscated picks a random non-colliding field name, inserts it
// next to a random existing string-valued sibling (or appends to target
// if none exists), and stores the magic-tagged [marker, value] tuple.
func embedObfuscated(target *ojson.Object, stored string) {
	newKey := randomFieldName(target)
	tuple := ojson.Array(ojson.String(obfuscationMagic), ojson.String(stored))

	sibling := randomStringSibling(target)
	if sibling == "" || !target.InsertAfter(sibling, newKey, tuple) {
		target.Set(newKey, tuple)
	}
}

func randomStringSibling(o *ojson.Object) string {
	var candidates []string
	for _, k := range o.Keys() {
		if v, _ := o.Get(k); v.Kind == ojson.KindString {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[rand.IntN(len(candidates))]
}

const fieldNameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomFieldName(o *ojson.Object) string {
	for {
		n := 6 + rand.IntN(7) // 6..12 inclusive
		b := make([]byte, n)
		for i := range b {
			b[i] = fieldNameAlphabet[rand.IntN(len(fieldNameAlphabet))]
		}
		name := string(b)
		if _, exists := o.Get(name); !exists {
			return name
		}
	}
}
