package knowledge

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the SHA-256 hex digest of content, used to detect
// remote edits to synced documents without comparing full text.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
