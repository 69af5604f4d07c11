// Package report summarizes accumulated keyspaces.
package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"bitbucket.org/abseq/ninemer/keyspace"
)

// KeyCount is a key with its number of occurrences.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Summary describes a single keyspace.
type Summary struct {
	// Keys is the current number of keys.
	Keys int `json:"keys"`
	// Cardinality is the number of canonical keys.
	Cardinality int `json:"cardinality"`
	// Observed is the number of keys with a non-zero count.
	Observed int `json:"observed"`
	// Coverage is the proportion of canonical keys observed.
	Coverage float64 `json:"coverage"`
	// Total is the sum of all counts.
	Total int `json:"total"`
	// Entropy is the Shannon entropy of the key distribution in bits.
	Entropy float64 `json:"entropy"`
	// Extra are the out-of-alphabet keys.
	Extra []string `json:"extra,omitempty"`
	// Top are the most frequent keys.
	Top []KeyCount `json:"top,omitempty"`
}

// Top returns n most frequent observed keys. Keys with equal counts
// are sorted lexicographically.
func Top(ks *keyspace.Keyspace, n int) []KeyCount {
	res := make([]KeyCount, 0)
	for k, s := range ks.Entries {
		if s.Count > 0 {
			res = append(res, KeyCount{k, s.Count})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Key < res[j].Key
	})
	if n >= 0 && len(res) > n {
		res = res[:n]
	}
	return res
}

// Entropy returns the Shannon entropy (bits) of the key frequencies.
// Zero is returned if nothing was observed.
func Entropy(ks *keyspace.Keyspace) float64 {
	p := make([]float64, 0)
	for _, s := range ks.Entries {
		if s.Count > 0 {
			p = append(p, float64(s.Count))
		}
	}
	total := floats.Sum(p)
	if total == 0 {
		return 0
	}
	floats.Scale(1/total, p)
	return stat.Entropy(p) / math.Ln2
}

// Describe summarizes a keyspace including top n keys.
func Describe(ks *keyspace.Keyspace, n int) Summary {
	s := Summary{
		Keys:    ks.Len(),
		Total:   ks.Total(),
		Entropy: Entropy(ks),
		Extra:   ks.ExtraKeys(),
		Top:     Top(ks, n),
	}
	canonicalObserved := 0
	for k, st := range ks.Entries {
		if st.Count == 0 {
			continue
		}
		s.Observed++
		if ks.Canonical(k) {
			canonicalObserved++
		}
	}
	s.Cardinality = keyspace.Cardinality(ks.Alphabet, ks.Length)
	if s.Cardinality > 0 {
		s.Coverage = float64(canonicalObserved) / float64(s.Cardinality)
	}
	return s
}
