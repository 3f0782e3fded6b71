// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides admin credential handling: argon2id password
// hashing with legacy bcrypt verification, and signed session tokens.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Argon2id parameters for new hashes (m=19456 KiB, t=2, p=1).
const (
	Argon2Time    = 2
	Argon2Memory  = 19 * 1024
	Argon2Threads = 1
	Argon2KeyLen  = 32
	Argon2SaltLen = 16
)

var errMalformedHash = errors.New("malformed argon2id hash")

// argonHash is a decoded $argon2id$v=19$m=..,t=..,p=..$salt$key string.
type argonHash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func parseArgonHash(encoded string) (argonHash, error) {
	var h argonHash
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return h, errMalformedHash
	}
	if fields[1] != "argon2id" {
		return h, fmt.Errorf("unsupported hash type %q", fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return h, fmt.Errorf("%w: version %q", errMalformedHash, fields[2])
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.threads); err != nil {
		return h, fmt.Errorf("%w: parameters %q", errMalformedHash, fields[3])
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return h, fmt.Errorf("%w: salt: %v", errMalformedHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil {
		return h, fmt.Errorf("%w: key: %v", errMalformedHash, err)
	}
	return h, nil
}

func (h argonHash) String() string {
	enc := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads, enc.EncodeToString(h.salt), enc.EncodeToString(h.key))
}

func (h argonHash) current() bool {
	return h.memory == Argon2Memory && h.time == Argon2Time && h.threads == Argon2Threads
}

func isBcrypt(encoded string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encoded, prefix) {
			return true
		}
	}
	return false
}

// HashArgon2 hashes input with a random salt and the current parameters.
func HashArgon2(input string) (string, error) {
	h := argonHash{
		memory:  Argon2Memory,
		time:    Argon2Time,
		threads: Argon2Threads,
		salt:    make([]byte, Argon2SaltLen),
	}
	if _, err := rand.Read(h.salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	h.key = argon2.IDKey([]byte(input), h.salt, h.time, h.memory, h.threads, Argon2KeyLen)
	return h.String(), nil
}

// VerifyArgon2 checks input against an encoded argon2id hash using the
// parameters stored in the hash.
func VerifyArgon2(input, encoded string) (bool, error) {
	h, err := parseArgonHash(encoded)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey([]byte(input), h.salt, h.time, h.memory, h.threads, uint32(len(h.key)))
	return subtle.ConstantTimeCompare(key, h.key) == 1, nil
}

// HashPassword hashes a new admin password.
func HashPassword(password string) (string, error) {
	return HashArgon2(password)
}

// CheckPassword verifies password against an argon2id or legacy bcrypt hash.
func CheckPassword(password, encoded string) (bool, error) {
	if !isBcrypt(encoded) {
		return VerifyArgon2(password, encoded)
	}
	switch err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)); {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verifying bcrypt hash: %w", err)
	}
}

// NeedsRehash reports whether a stored hash should be replaced after a
// successful login: bcrypt, unparsable, or outdated argon2id parameters.
func NeedsRehash(encoded string) bool {
	h, err := parseArgonHash(encoded)
	return err != nil || !h.current()
}
