package io

import (
	"crypto/sha256"
	"encoding/base64"
	"io"
	"os"
)

// ContentHash reads r to its end and returns the platform content hash,
// base64 (standard encoding) of the SHA-256 digest.
//
// Items with the same ContentHash are the same content for the platform;
// uploads are deduplicated by this value.
func ContentHash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// FileContentHash is ContentHash over the content of the file at path.
func FileContentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ContentHash(f)
}
