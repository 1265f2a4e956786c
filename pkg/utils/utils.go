package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashKey creates a SHA256 hash of the joined parts, separated by a
// unit separator so adjacent fields cannot collide. Used for consistent,
// safe Redis keys.
func HashKey(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// StripZeroWidth removes zero-width and BOM characters that the ad
// library occasionally embeds in advertiser names.
func StripZeroWidth(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			return -1
		}
		return r
	}, s)
}

// CleanAdvertiserName strips zero-width characters and whitespace,
// defaulting to Unknown when nothing remains.
func CleanAdvertiserName(name string) string {
	cleaned := strings.TrimSpace(StripZeroWidth(name))
	if cleaned == "" {
		return "Unknown"
	}
	return cleaned
}
