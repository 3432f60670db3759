package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// MasterKeyEnv holds the hex master key. It takes precedence over the key file.
const MasterKeyEnv = "MASTER_KEY_HEX"

const registryKeyInfo = "hostelpass-registry-file"

// ReadMasterKey reads the 32-byte master key from MASTER_KEY_HEX, falling back
// to the hex file at path.
func ReadMasterKey(path string) ([]byte, error) {
	h := os.Getenv(MasterKeyEnv)
	if h == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s not set and %s not readable: %w", MasterKeyEnv, path, err)
		}
		h = string(data)
	}
	b, err := hex.DecodeString(strings.TrimSpace(h))
	if err != nil {
		return nil, fmt.Errorf("master key hex decode error: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("master key length must be 32 bytes (hex 64 chars)")
	}
	return b, nil
}

// DeriveFileKey derives the registry file encryption key from the master key.
func DeriveFileKey(master []byte) ([]byte, error) {
	h := hkdf.New(sha256.New, master, nil, []byte(registryKeyInfo))
	out := make([]byte, 32)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteMasterKey generates a new key and writes it hex encoded to path.
// An existing file is never overwritten.
func WriteMasterKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}
	key := MustRandom(32)
	return os.WriteFile(path, []byte(hex.EncodeToString(key)+"\n"), 0600)
}

// MustRandom returns n random bytes or panics.
func MustRandom(n int) []byte {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err)
	}
	return b
}
