// Package store writes keyspaces as JSON artifacts and reads them
// back.
//
// Every artifact is a JSON object mapping keys to statistics, with
// keys sorted lexicographically and a two space indentation, so
// identical keyspaces always produce identical files. Artifacts can
// optionally be snappy compressed, in which case the ".sz" suffix is
// appended to the file name.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/op/go-logging"

	"bitbucket.org/abseq/ninemer/keyspace"
)

// log is the global logging variable.
var log = logging.MustGetLogger("store")

const (
	// Indent is used for all the artifacts.
	Indent = "  "
	// SnappySuffix is appended to compressed artifact names.
	SnappySuffix = ".sz"

	// CanonicalNucleotideFile is the fresh nucleotide keyspace.
	CanonicalNucleotideFile = "nucleotide_nonuplets_9.json"
	// CanonicalAminoFile is the fresh amino acid keyspace.
	CanonicalAminoFile = "amino_acid_triplets.json"
	// NucleotideFile is the nucleotide keyspace after accumulation.
	NucleotideFile = "populated_nonuplets.json"
	// AminoFile is the amino acid keyspace after accumulation.
	AminoFile = "populated_triplets.json"
)

// Options control how the artifacts are written.
type Options struct {
	// Compress enables snappy compression.
	Compress bool
}

// Write encodes the keyspace entries to w.
func Write(w io.Writer, entries keyspace.Entries) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", Indent)
	return enc.Encode(entries)
}

// WriteFile writes the keyspace to the file. The file name gets
// SnappySuffix if compression is enabled; the actual path is
// returned. A partially written file is removed on error.
func WriteFile(path string, ks *keyspace.Keyspace, opts Options) (string, error) {
	path, err := writeFile(path, opts, func(w io.Writer) error {
		return Write(w, ks.Entries)
	})
	if err != nil {
		return "", err
	}
	log.Infof("Wrote %d keys to %s", ks.Len(), path)
	return path, nil
}

func writeFile(path string, opts Options, write func(io.Writer) error) (string, error) {
	if opts.Compress && !strings.HasSuffix(path, SnappySuffix) {
		path += SnappySuffix
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	var w io.Writer
	var sw *snappy.Writer
	bw := bufio.NewWriter(f)
	w = bw
	if opts.Compress {
		sw = snappy.NewBufferedWriter(f)
		w = sw
	}

	err = write(w)
	if err == nil && sw != nil {
		err = sw.Close()
	}
	if err == nil && sw == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(path); rerr != nil {
			log.Errorf("Error removing %s: %v", path, rerr)
		}
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// save makes sure the directory exists and writes both keyspaces.
func save(nuc, amino *keyspace.Keyspace, dir, nucName, aminoName string, opts Options) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", err
	}
	if nuc.Extended() {
		log.Warningf("Nucleotide keyspace is extended with %d out-of-alphabet keys", len(nuc.ExtraKeys()))
	}
	if amino.Extended() {
		log.Warningf("Amino acid keyspace is extended with %d out-of-alphabet keys", len(amino.ExtraKeys()))
	}
	nucPath, err := WriteFile(filepath.Join(dir, nucName), nuc, opts)
	if err != nil {
		return "", "", err
	}
	aminoPath, err := WriteFile(filepath.Join(dir, aminoName), amino, opts)
	if err != nil {
		return "", "", err
	}
	return nucPath, aminoPath, nil
}

// Save writes accumulated keyspaces to dir, creating it if needed. It
// returns the nucleotide and the amino acid artifact paths.
func Save(nuc, amino *keyspace.Keyspace, dir string, opts Options) (string, string, error) {
	return save(nuc, amino, dir, NucleotideFile, AminoFile, opts)
}

// SaveCanonical writes fresh keyspaces to dir under the canonical
// file names.
func SaveCanonical(nuc, amino *keyspace.Keyspace, dir string, opts Options) (string, string, error) {
	return save(nuc, amino, dir, CanonicalNucleotideFile, CanonicalAminoFile, opts)
}

// Read decodes keyspace entries from rd.
func Read(rd io.Reader) (keyspace.Entries, error) {
	var entries keyspace.Entries
	dec := json.NewDecoder(rd)
	if err := dec.Decode(&entries); err != nil {
		return nil, err
	}
	for k, s := range entries {
		if s == nil {
			return nil, fmt.Errorf("key %s has no statistics", k)
		}
		if s.Indices == nil {
			s.Indices = []int{}
		}
		if s.Count != len(s.Indices) {
			return nil, fmt.Errorf("key %s: count %d doesn't match %d indices", k, s.Count, len(s.Indices))
		}
	}
	return entries, nil
}

// Load reads keyspace entries from a file written by WriteFile.
// Files with SnappySuffix are decompressed.
func Load(path string) (keyspace.Entries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rd io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, SnappySuffix) {
		rd = snappy.NewReader(f)
	}
	entries, err := Read(rd)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}
