package utils

import (
	rndm "math/rand"
	"path/filepath"
	"regexp"
	"strings"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")
var digitRunes = []rune("0123456789")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

// --- String helpers ---

// NormalizeBuilding lowercases and trims a building name for comparison.
func NormalizeBuilding(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BuildingMatches implements the two matching policies for building names.
// Exact is the default; loose substring containment tolerates the legacy
// "Building, City" records and has to be asked for explicitly.
func BuildingMatches(candidate, target string, loose bool) bool {
	c, t := NormalizeBuilding(candidate), NormalizeBuilding(target)
	if c == t {
		return true
	}
	if loose {
		return strings.Contains(c, t) || strings.Contains(t, c)
	}
	return false
}

// SanitizeFilename strips path components and unsafe runes.
func SanitizeFilename(name string) string {
	re := regexp.MustCompile(`[^\w.\-]`)
	clean := re.ReplaceAllString(filepath.Base(name), "_")
	if clean == "" {
		return "file"
	}
	return clean
}
