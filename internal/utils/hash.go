package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id cost parameters. VerifyHash reads the costs back out of the
// encoded hash, so these can be retuned without invalidating stored
// credentials.
const (
	hashTime    = 2
	hashMemory  = 19 * 1024 // KiB
	hashThreads = 1
	hashKeyLen  = 32
	hashSaltLen = 16
)

func GenerateHash(payload string) (string, error) {
	salt := make([]byte, hashSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(payload), salt, hashTime, hashMemory, hashThreads, hashKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, hashMemory, hashTime, hashThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func VerifyHash(hashed, plain string) (bool, error) {
	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("malformed argon2id hash")
	}

	memory, timeCost, threads, err := parseHashCosts(parts[3])
	if err != nil {
		return false, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, err
	}

	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(plain), salt, timeCost, memory, threads, uint32(len(want)))

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// parseHashCosts decodes the "m=19456,t=2,p=1" segment of an encoded hash.
func parseHashCosts(s string) (memory, timeCost uint32, threads uint8, err error) {
	for _, item := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(item, "=")
		if !ok {
			return 0, 0, 0, fmt.Errorf("malformed cost segment %q", item)
		}

		switch key {
		case "m":
			m, parseErr := strconv.ParseUint(val, 10, 32)
			if parseErr != nil {
				return 0, 0, 0, parseErr
			}
			memory = uint32(m)
		case "t":
			t, parseErr := strconv.ParseUint(val, 10, 32)
			if parseErr != nil {
				return 0, 0, 0, parseErr
			}
			timeCost = uint32(t)
		case "p":
			p, parseErr := strconv.ParseUint(val, 10, 8)
			if parseErr != nil {
				return 0, 0, 0, parseErr
			}
			threads = uint8(p)
		default:
			return 0, 0, 0, fmt.Errorf("unknown cost parameter %q", key)
		}
	}
	return memory, timeCost, threads, nil
}
