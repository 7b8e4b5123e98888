package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// HashBytes returns the SHA-256 digest of data, lower-case hex encoded.
// Manifests persist these digests, so the algorithm and encoding are part
// of the on-disk format and must not change.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile hashes a file's content. The file is read fully into memory;
// scaffolded trees stay small enough that streaming is not worth it.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return HashBytes(data), nil
}
