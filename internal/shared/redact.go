package shared

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// RedactEmail keeps the first and last character of the local part: j******h@example.com.
func RedactEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return "***"
	}
	r := []rune(local)
	if len(r) <= 2 {
		return strings.Repeat("*", len(r)) + "@" + domain
	}
	return string(r[0]) + strings.Repeat("*", len(r)-2) + string(r[len(r)-1]) + "@" + domain
}

// HashPII returns a short irreversible fingerprint suitable for log correlation.
func HashPII(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])[:12]
}
