// Package index accumulates window and amino acid key statistics over
// a scanned sequence.
package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/op/go-logging"

	"bitbucket.org/abseq/ninemer/bio"
	"bitbucket.org/abseq/ninemer/codon"
	"bitbucket.org/abseq/ninemer/keyspace"
	"bitbucket.org/abseq/ninemer/scan"
)

// log is the global logging variable.
var log = logging.MustGetLogger("index")

// Policy defines what happens to keys which are not in a keyspace.
type Policy int

const (
	// Extend inserts out-of-alphabet keys, the keyspace becomes
	// extended and a warning is logged.
	Extend Policy = iota
	// Reject stops accumulation with an OutOfAlphabetError.
	Reject
)

// PolicyByName returns a policy from a string.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "extend":
		return Extend, nil
	case "reject":
		return Reject, nil
	}
	return Extend, fmt.Errorf("unknown policy: %s", name)
}

func (p Policy) String() string {
	switch p {
	case Extend:
		return "extend"
	case Reject:
		return "reject"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ErrOutOfAlphabet is matched by OutOfAlphabetError.
var ErrOutOfAlphabet = errors.New("key is out of the alphabet")

// Kind is the keyspace a key belongs to.
type Kind string

const (
	KindNucleotide Kind = "nucleotide"
	KindAmino      Kind = "amino"
)

// OutOfAlphabetError is returned with the Reject policy.
type OutOfAlphabetError struct {
	Kind   Kind
	Key    string
	Offset int
}

func (e *OutOfAlphabetError) Error() string {
	return fmt.Sprintf("%s key %q at offset %d is out of the alphabet", e.Kind, e.Key, e.Offset)
}

// Is makes errors.Is(err, ErrOutOfAlphabet) work.
func (e *OutOfAlphabetError) Is(target error) bool {
	return target == ErrOutOfAlphabet
}

// Record is the result of processing a single window.
type Record struct {
	Offset  int
	Window  string
	Triplet string
}

// Stats stores accumulation statistics.
type Stats struct {
	// Windows is the number of windows processed.
	Windows int `json:"windows"`
	// ExtraNucleotide is the number of windows with an out-of-alphabet
	// nucleotide key.
	ExtraNucleotide int `json:"extraNucleotide"`
	// ExtraAmino is the number of windows with an out-of-alphabet amino
	// acid key.
	ExtraAmino int `json:"extraAmino"`
	// StopAmino is the part of ExtraAmino where the key is only out of
	// the alphabet because of stop codons.
	StopAmino int `json:"stopAmino"`
}

// Malformed returns the number of windows with out-of-alphabet keys
// other than in-frame stop codons.
func (s Stats) Malformed() (nuc, amino int) {
	return s.ExtraNucleotide, s.ExtraAmino - s.StopAmino
}

// Accumulator updates nucleotide and amino acid keyspaces in place.
// It is not safe for concurrent use.
type Accumulator struct {
	Nucleotide *keyspace.Keyspace
	Amino      *keyspace.Keyspace
	Stats      Stats

	translator *codon.Translator
	policy     Policy
}

// New creates a new accumulator.
func New(nuc, amino *keyspace.Keyspace, tr *codon.Translator, policy Policy) (*Accumulator, error) {
	if tr.WindowLength() != nuc.Length {
		return nil, fmt.Errorf("translator window length %d doesn't match nucleotide key length %d",
			tr.WindowLength(), nuc.Length)
	}
	if tr.WindowLength()/3 != amino.Length {
		return nil, fmt.Errorf("translator produces %d letters, amino key length is %d",
			tr.WindowLength()/3, amino.Length)
	}
	return &Accumulator{
		Nucleotide: nuc,
		Amino:      amino,
		translator: tr,
		policy:     policy,
	}, nil
}

// Add translates a window and registers both keys at offset. With
// the Reject policy neither keyspace is changed if either key is out
// of the alphabet.
func (a *Accumulator) Add(offset int, window string) (Record, error) {
	triplet, err := a.translator.TranslateStrict(window)
	if err != nil {
		return Record{}, fmt.Errorf("offset %d: %w", offset, err)
	}
	r := Record{Offset: offset, Window: window, Triplet: triplet}

	nucOK := a.Nucleotide.Canonical(window)
	aminoOK := a.Amino.Canonical(triplet)

	if a.policy == Reject {
		if !nucOK {
			return r, &OutOfAlphabetError{Kind: KindNucleotide, Key: window, Offset: offset}
		}
		if !aminoOK {
			return r, &OutOfAlphabetError{Kind: KindAmino, Key: triplet, Offset: offset}
		}
	}

	stop := !aminoOK && a.stopOnly(triplet)
	if a.Nucleotide.Add(window, offset) {
		log.Warningf("Out-of-alphabet nucleotide key %s at offset %d, keyspace is extended", window, offset)
	}
	if a.Amino.Add(triplet, offset) {
		if stop {
			log.Infof("Amino acid key %s with a stop codon at offset %d, keyspace is extended", triplet, offset)
		} else {
			log.Warningf("Out-of-alphabet amino acid key %s at offset %d, keyspace is extended", triplet, offset)
		}
	}

	a.Stats.Windows++
	if !nucOK {
		a.Stats.ExtraNucleotide++
	}
	if !aminoOK {
		a.Stats.ExtraAmino++
	}
	if stop {
		a.Stats.StopAmino++
	}
	return r, nil
}

// stopOnly returns true if key contains stop codons and all the other
// letters are in the amino acid alphabet.
func (a *Accumulator) stopOnly(key string) bool {
	if len(key) != a.Amino.Length {
		return false
	}
	stop := false
	for i := 0; i < len(key); i++ {
		switch {
		case key[i] == bio.StopAA:
			stop = true
		case !a.Amino.Alphabet.Contains(key[i]):
			return false
		}
	}
	return stop
}

// Accumulate processes all the windows of the scanner. If trace is not
// nil, it is called for every processed window.
func (a *Accumulator) Accumulate(s *scan.Scanner, trace func(Record)) error {
	for s.Scan() {
		w := s.Window()
		r, err := a.Add(w.Offset, w.Sequence)
		if err != nil {
			return err
		}
		if trace != nil {
			trace(r)
		}
	}
	if nuc, amino := a.Stats.Malformed(); nuc > 0 || amino > 0 {
		log.Warningf("%d windows with out-of-alphabet nucleotide keys, %d with malformed amino acid keys",
			nuc, amino)
	}
	if a.Stats.StopAmino > 0 {
		log.Infof("%d windows with in-frame stop codons", a.Stats.StopAmino)
	}
	log.Debugf("Processed %d windows", a.Stats.Windows)
	return nil
}

// Accumulate processes scanner output into the keyspaces with the
// Extend policy.
func Accumulate(s *scan.Scanner, tr *codon.Translator, nuc, amino *keyspace.Keyspace) (Stats, error) {
	a, err := New(nuc, amino, tr, Extend)
	if err != nil {
		return Stats{}, err
	}
	err = a.Accumulate(s, nil)
	return a.Stats, err
}
