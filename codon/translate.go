// Package codon translates nucleotide windows into amino acid keys
// codon by codon.
package codon

import (
	"errors"
	"fmt"
	"strings"

	"bitbucket.org/abseq/ninemer/bio"
)

// ErrInvalidWindowLength is returned by TranslateStrict when the window
// length differs from the translator window length.
var ErrInvalidWindowLength = errors.New("invalid window length")

// Translator maps nucleotide windows of a fixed length to amino acid
// strings using a genetic code. It has no mutable state.
type Translator struct {
	code         *bio.GeneticCode
	windowLength int
	sentinel     string
}

// NewTranslator creates a new translator. windowLength should be a
// positive multiple of three.
func NewTranslator(code *bio.GeneticCode, windowLength int) (*Translator, error) {
	if code == nil {
		return nil, errors.New("no genetic code")
	}
	if windowLength <= 0 || windowLength%3 != 0 {
		return nil, fmt.Errorf("window length %d doesn't divide by 3", windowLength)
	}
	return &Translator{
		code:         code,
		windowLength: windowLength,
		sentinel:     strings.Repeat(string(rune(bio.UnknownAA)), windowLength/3),
	}, nil
}

// mustTranslator is like NewTranslator, but panics on error.
func mustTranslator(code *bio.GeneticCode, windowLength int) *Translator {
	t, err := NewTranslator(code, windowLength)
	if err != nil {
		panic(err)
	}
	return t
}

// standard is the translator used by Translate.
var standard = mustTranslator(bio.Standard, 9)

// Translate translates a 9-base window using the standard genetic
// code. See Translator.Translate.
func Translate(window string) string {
	return standard.Translate(window)
}

// WindowLength returns the nucleotide window length.
func (t *Translator) WindowLength() int {
	return t.windowLength
}

// Code returns the genetic code.
func (t *Translator) Code() *bio.GeneticCode {
	return t.code
}

// Sentinel returns the unknown key returned for windows of a wrong
// length, e.g. "XXX".
func (t *Translator) Sentinel() string {
	return t.sentinel
}

// Translate translates a window codon by codon. A window of a wrong
// length yields the sentinel. A codon with a symbol outside of ACGT
// only makes its own position unknown.
func (t *Translator) Translate(window string) string {
	aa, err := t.TranslateStrict(window)
	if err != nil {
		return t.sentinel
	}
	return aa
}

// TranslateStrict is like Translate, but returns ErrInvalidWindowLength
// instead of the sentinel.
func (t *Translator) TranslateStrict(window string) (string, error) {
	if len(window) != t.windowLength {
		return "", fmt.Errorf("%w: %d (expected %d)", ErrInvalidWindowLength, len(window), t.windowLength)
	}
	res := make([]byte, t.windowLength/3)
	var codon [3]byte
	for i := 0; i < len(window); i += 3 {
		for j := 0; j < 3; j++ {
			codon[j] = normalize(window[i+j])
		}
		res[i/3] = t.code.Codon(string(codon[:]))
	}
	return string(res), nil
}

// normalize converts a nucleotide to the upper case, U is read as T.
func normalize(b byte) byte {
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	if b == 'U' {
		return 'T'
	}
	return b
}
