package keyspace

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet is an ordered set of symbols keys are built from.
type Alphabet string

const (
	// DNA is the standard nucleotide alphabet.
	DNA Alphabet = "ACGT"
	// RNA is the nucleotide alphabet with uracil.
	RNA Alphabet = "ACGU"
	// IUPAC is the nucleotide alphabet with ambiguity codes.
	IUPAC Alphabet = "ACGTRYSWKMBDHVN"
	// AminoAcids are 20 standard amino acids and selenocysteine.
	AminoAcids Alphabet = "ARNDCEQGHILKMFPSTWYVU"
)

// NamedAlphabets are the nucleotide alphabets which can be selected
// by name.
var NamedAlphabets = map[string]Alphabet{
	"dna":   DNA,
	"rna":   RNA,
	"iupac": IUPAC,
}

// AlphabetByName returns a nucleotide alphabet by its name.
func AlphabetByName(name string) (Alphabet, error) {
	a, ok := NamedAlphabets[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown alphabet: %s", name)
	}
	return a, nil
}

// Validate checks that the alphabet is not empty and contains no
// duplicate symbols.
func (a Alphabet) Validate() error {
	if len(a) == 0 {
		return errors.New("empty alphabet")
	}
	var seen [256]bool
	for i := 0; i < len(a); i++ {
		if seen[a[i]] {
			return fmt.Errorf("duplicate symbol %q in alphabet", a[i])
		}
		seen[a[i]] = true
	}
	return nil
}

// Contains returns true if symbol is in the alphabet.
func (a Alphabet) Contains(symbol byte) bool {
	return strings.IndexByte(string(a), symbol) >= 0
}

// Len returns number of symbols.
func (a Alphabet) Len() int {
	return len(a)
}
