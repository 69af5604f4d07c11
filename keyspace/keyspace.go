// Package keyspace implements exhaustive enumerations of all keys of
// a given alphabet and length together with per-key statistics.
package keyspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

const (
	// NucleotideLength is the default nucleotide window length.
	NucleotideLength = 9
	// AminoLength is the default amino acid key length.
	AminoLength = NucleotideLength / 3
	// MaxKeys limits the size of a generated keyspace.
	MaxKeys = 1 << 24
)

// ErrTooLarge is returned when the keyspace would have more than
// MaxKeys keys.
var ErrTooLarge = errors.New("keyspace is too large")

// KeyStats stores number of occurrences of a key and the offsets
// where it was found. Count is always equal to len(Indices).
type KeyStats struct {
	Count   int   `json:"count"`
	Indices []int `json:"indices"`
}

// newKeyStats returns zero statistics. Indices is never nil, so it
// is encoded as an empty list.
func newKeyStats() *KeyStats {
	return &KeyStats{Indices: []int{}}
}

// Add registers one occurrence at offset.
func (s *KeyStats) Add(offset int) {
	s.Count++
	s.Indices = append(s.Indices, offset)
}

// Entries maps keys to their statistics.
type Entries map[string]*KeyStats

// Keys returns all the keys sorted lexicographically.
func (e Entries) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Keyspace is a set of keys over an alphabet with a fixed length.
// After generation it holds exactly Cardinality(Alphabet, Length)
// keys. Keys outside of the alphabet can only be added with Add, in
// which case the keyspace becomes extended and the fixed cardinality
// no longer holds.
type Keyspace struct {
	Alphabet Alphabet
	Length   int
	Entries  Entries

	extra map[string]bool
}

// Cardinality returns the number of keys of length over the alphabet,
// or -1 if it exceeds MaxKeys.
func Cardinality(a Alphabet, length int) int {
	n := 1
	for i := 0; i < length; i++ {
		n *= a.Len()
		if n > MaxKeys {
			return -1
		}
	}
	return n
}

// Generate creates a new keyspace holding every key of the given
// length over the alphabet, each with zero statistics. A new map is
// allocated on every call.
func Generate(a Alphabet, length int) (*Keyspace, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if length <= 0 {
		return nil, fmt.Errorf("wrong key length: %d", length)
	}
	n := Cardinality(a, length)
	if n < 0 {
		return nil, fmt.Errorf("%w: %d^%d keys", ErrTooLarge, a.Len(), length)
	}

	ks := &Keyspace{
		Alphabet: a,
		Length:   length,
		Entries:  make(Entries, n),
		extra:    make(map[string]bool),
	}

	// odometer over the alphabet positions
	pos := make([]int, length)
	key := make([]byte, length)
	for i := range key {
		key[i] = a[0]
	}
	for {
		ks.Entries[string(key)] = newKeyStats()
		i := length - 1
		for ; i >= 0; i-- {
			pos[i]++
			if pos[i] < a.Len() {
				key[i] = a[pos[i]]
				break
			}
			pos[i] = 0
			key[i] = a[0]
		}
		if i < 0 {
			break
		}
	}
	return ks, nil
}

// Nucleotide returns a fresh keyspace of all DNA windows of length
// NucleotideLength (262,144 keys).
func Nucleotide() *Keyspace {
	ks, err := Generate(DNA, NucleotideLength)
	if err != nil {
		panic(err)
	}
	return ks
}

// Amino returns a fresh keyspace of all amino acid triplets
// (9,261 keys).
func Amino() *Keyspace {
	ks, err := Generate(AminoAcids, AminoLength)
	if err != nil {
		panic(err)
	}
	return ks
}

// FromEntries creates a keyspace from previously stored entries, e.g.
// loaded from a file. Keys which are not canonical are marked as
// extra.
func FromEntries(a Alphabet, length int, entries Entries) *Keyspace {
	ks := &Keyspace{
		Alphabet: a,
		Length:   length,
		Entries:  entries,
		extra:    make(map[string]bool),
	}
	for k := range entries {
		if !ks.Canonical(k) {
			ks.extra[k] = true
		}
	}
	return ks
}

// Canonical returns true if key has the right length and consists
// only of alphabet symbols.
func (ks *Keyspace) Canonical(key string) bool {
	if len(key) != ks.Length {
		return false
	}
	for i := 0; i < len(key); i++ {
		if !ks.Alphabet.Contains(key[i]) {
			return false
		}
	}
	return true
}

// Get returns statistics for a key.
func (ks *Keyspace) Get(key string) (*KeyStats, bool) {
	s, ok := ks.Entries[key]
	return s, ok
}

// Add registers an occurrence of key at offset. If the key is absent
// it is inserted and the function returns true; the keyspace is then
// extended.
func (ks *Keyspace) Add(key string, offset int) (inserted bool) {
	s, ok := ks.Entries[key]
	if !ok {
		s = newKeyStats()
		ks.Entries[key] = s
		ks.extra[key] = true
		inserted = true
	}
	s.Add(offset)
	return
}

// Len returns the current number of keys.
func (ks *Keyspace) Len() int {
	return len(ks.Entries)
}

// Keys returns all the keys sorted lexicographically.
func (ks *Keyspace) Keys() []string {
	return ks.Entries.Keys()
}

// Extended returns true if keys outside of the canonical keyspace
// were inserted.
func (ks *Keyspace) Extended() bool {
	return len(ks.extra) > 0
}

// ExtraKeys returns sorted keys which are not canonical.
func (ks *Keyspace) ExtraKeys() []string {
	keys := make([]string, 0, len(ks.extra))
	for k := range ks.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the sum of all counts.
func (ks *Keyspace) Total() (n int) {
	for _, s := range ks.Entries {
		n += s.Count
	}
	return
}

// MarshalJSON encodes the keyspace as an object mapping keys to
// statistics. Keys are sorted by encoding/json.
func (ks *Keyspace) MarshalJSON() ([]byte, error) {
	return json.Marshal(ks.Entries)
}

func (ks *Keyspace) String() string {
	return fmt.Sprintf("<Keyspace: alphabet=%s, length=%d, keys=%d, extra=%d>",
		ks.Alphabet, ks.Length, ks.Len(), len(ks.extra))
}
