// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// Package auth implements the widget auth gate: API key generation,
// validation against stored key digests, scope checks, and per-key
// rate limiting.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// keyScheme prefixes every StorySlip API key so keys are recognizable
// in logs and secret scanners.
const keyScheme = "ss_"

// prefixLen is how many characters of the plaintext key are stored for
// display in key listings ("ss_" plus the first hex chars).
const prefixLen = 11

// GenerateKey creates a new API key secret. It returns the plaintext
// (shown to the caller exactly once), the SHA-256 digest persisted for
// lookup, and the display prefix.
func GenerateKey() (plaintext, digest, prefix string, err error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", "", "", fmt.Errorf("generate key material: %w", err)
	}
	plaintext = keyScheme + hex.EncodeToString(buf)
	return plaintext, Digest(plaintext), plaintext[:prefixLen], nil
}

// Digest returns the hex-encoded SHA-256 digest of a plaintext key.
// Keys are stored and looked up by digest only; the digest is
// deterministic so a single indexed query resolves a presented key.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// plausibleKey is a cheap shape check performed before the store
// lookup. It rejects garbage without a database round trip but is
// deliberately loose — the digest lookup is the real gate.
func plausibleKey(raw string) bool {
	return strings.HasPrefix(raw, keyScheme) && len(raw) > prefixLen
}
