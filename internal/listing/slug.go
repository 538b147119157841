package listing

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	slugSuffixLen = 6
	slugAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugFallback  = "job"
)

var (
	slugSpaceRe   = regexp.MustCompile(`\s+`)
	slugNonWordRe = regexp.MustCompile(`[^a-z0-9_-]+`)
	slugHyphensRe = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a title into the base part of a slug.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugNonWordRe.ReplaceAllString(s, "")
	s = slugHyphensRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return slugFallback
	}
	return s
}

// GenerateSlug appends a random suffix so no uniqueness pre-check is needed.
func GenerateSlug(title string) (string, error) {
	suffix, err := randomToken(slugSuffixLen)
	if err != nil {
		return "", err
	}
	return Slugify(title) + "-" + suffix, nil
}

func randomToken(n int) (string, error) {
	limit := big.NewInt(int64(len(slugAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = slugAlphabet[idx.Int64()]
	}
	return string(b), nil
}
