package service

import (
	"math/rand"
	"path/filepath"
	"strconv"
)

const (
	// suffixLength runes at the end of a name are kept when deriving a new
	// one. For "exercise-03.pdf" that is "se-03.pdf".
	suffixLength = 9

	// tokenLimit bounds the random token inserted into derived names.
	tokenLimit = 10_000_000
)

// TokenSource yields the numeric token for a derived file name.
type TokenSource func() int

func randomToken() int {
	return rand.Intn(tokenLimit) //nolint:gosec // name disambiguation, not security
}

// DeriveFileName inserts token in front of the last suffixLength runes of
// name. A name that is not longer than suffixLength gets the token in front
// of its extension instead ("x.pdf" -> "x42.pdf"), so it never starts with
// the token.
func DeriveFileName(name string, token int) string {
	runes := []rune(name)
	cut := len(runes) - suffixLength
	if cut <= 0 {
		cut = len(runes) - len([]rune(filepath.Ext(name)))
	}
	return string(runes[:cut]) + strconv.Itoa(token) + string(runes[cut:])
}
