package store

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"bitbucket.org/abseq/ninemer/keyspace"
)

const (
	small1 = "{\n  \"AA\": {\n    \"count\": 0,\n    \"indices\": []\n  },\n" +
		"  \"AC\": {\n    \"count\": 2,\n    \"indices\": [\n      7,\n      1\n    ]\n  }\n}\n"
)

func smallKeyspace(tst *testing.T) *keyspace.Keyspace {
	ks, err := keyspace.Generate("AC", 2)
	if err != nil {
		tst.Fatal(err)
	}
	delete(ks.Entries, "CA")
	delete(ks.Entries, "CC")
	ks.Add("AC", 7)
	ks.Add("AC", 1)
	return ks
}

func populated(tst *testing.T) (*keyspace.Keyspace, *keyspace.Keyspace) {
	nuc := keyspace.Nucleotide()
	amino := keyspace.Amino()
	for i, w := range []string{"ATGGAGCTG", "GAGCTGATG", "CTGATGGAG", "ATGGAGCTG"} {
		nuc.Add(w, 3*i)
	}
	amino.Add("MEL", 0)
	amino.Add("ELM", 3)
	amino.Add("LME", 6)
	amino.Add("MEL", 9)
	amino.Add("M*L", 12)
	return nuc, amino
}

func TestWrite(tst *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, smallKeyspace(tst).Entries); err != nil {
		tst.Fatal(err)
	}
	if b.String() != small1 {
		tst.Errorf("Incorrect encoded json value. Expected:\n'%v'\n got\n'%v'", small1, b.String())
	}
}

func TestSaveLoad(tst *testing.T) {
	dir := filepath.Join(tst.TempDir(), "out", "data")
	nuc, amino := populated(tst)

	nucPath, aminoPath, err := Save(nuc, amino, dir, Options{})
	if err != nil {
		tst.Fatal(err)
	}
	if filepath.Base(nucPath) != NucleotideFile || filepath.Base(aminoPath) != AminoFile {
		tst.Errorf("Wrong paths: %s, %s", nucPath, aminoPath)
	}

	nuc2, err := Load(nucPath)
	if err != nil {
		tst.Fatal(err)
	}
	amino2, err := Load(aminoPath)
	if err != nil {
		tst.Fatal(err)
	}
	if !reflect.DeepEqual(nuc.Entries, nuc2) {
		tst.Error("Nucleotide keyspace changed after reload")
	}
	if !reflect.DeepEqual(amino.Entries, amino2) {
		tst.Error("Amino acid keyspace changed after reload")
	}
	if s := amino2["MEL"]; s.Count != 2 || s.Indices[0] != 0 || s.Indices[1] != 9 {
		tst.Errorf("Wrong MEL stats: %+v", s)
	}
	if len(amino2) != 9262 {
		tst.Errorf("Expected 9262 amino keys, got %d", len(amino2))
	}
}

func TestSaveDeterministic(tst *testing.T) {
	dir1 := tst.TempDir()
	dir2 := tst.TempDir()
	nuc, amino := populated(tst)
	p1, _, err := Save(nuc, amino, dir1, Options{})
	if err != nil {
		tst.Fatal(err)
	}
	nuc, amino = populated(tst)
	p2, _, err := Save(nuc, amino, dir2, Options{})
	if err != nil {
		tst.Fatal(err)
	}
	b1, err := os.ReadFile(p1)
	if err != nil {
		tst.Fatal(err)
	}
	b2, err := os.ReadFile(p2)
	if err != nil {
		tst.Fatal(err)
	}
	if !bytes.Equal(b1, b2) {
		tst.Error("Artifacts differ between identical runs")
	}
}

func TestCompressed(tst *testing.T) {
	dir := tst.TempDir()
	nuc := keyspace.Nucleotide()
	amino := keyspace.Amino()
	nucPath, aminoPath, err := SaveCanonical(nuc, amino, dir, Options{Compress: true})
	if err != nil {
		tst.Fatal(err)
	}
	if filepath.Base(nucPath) != CanonicalNucleotideFile+SnappySuffix ||
		filepath.Base(aminoPath) != CanonicalAminoFile+SnappySuffix {
		tst.Errorf("Wrong paths: %s, %s", nucPath, aminoPath)
	}
	entries, err := Load(nucPath)
	if err != nil {
		tst.Fatal(err)
	}
	if len(entries) != 262144 {
		tst.Errorf("Expected 262144 keys, got %d", len(entries))
	}
	entries, err = Load(aminoPath)
	if err != nil {
		tst.Fatal(err)
	}
	if !reflect.DeepEqual(entries, amino.Entries) {
		tst.Error("Compressed amino acid keyspace changed after reload")
	}
}

func TestSaveUnwritable(tst *testing.T) {
	f := filepath.Join(tst.TempDir(), "file")
	if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
		tst.Fatal(err)
	}
	nuc, amino := populated(tst)
	if _, _, err := Save(nuc, amino, f, Options{}); err == nil {
		tst.Error("Expected error when output directory is a file")
	}
}

func TestWriteFileRemoved(tst *testing.T) {
	dir := tst.TempDir()
	failed := errors.New("disk full")
	for _, opts := range []Options{{}, {Compress: true}} {
		fn := filepath.Join(dir, AminoFile)
		_, err := writeFile(fn, opts, func(w io.Writer) error {
			if _, err := io.WriteString(w, "{\n  \"AAA\": {"); err != nil {
				return err
			}
			return failed
		})
		if !errors.Is(err, failed) {
			tst.Error("Expected write error, got", err)
		}
		if opts.Compress {
			fn += SnappySuffix
		}
		if _, err := os.Stat(fn); !os.IsNotExist(err) {
			tst.Errorf("Partial file %s wasn't removed", fn)
		}
		if _, err := Load(fn); err == nil {
			tst.Error("Loaded a partial file")
		}
	}
}

func TestLoadErrors(tst *testing.T) {
	if _, err := Load(filepath.Join(tst.TempDir(), "missing.json")); !os.IsNotExist(err) {
		tst.Error("Expected not exist error, got", err)
	}
	if _, err := Read(bytes.NewBufferString(`{"AAA": {"count": 2, "indices": [1]}}`)); err == nil {
		tst.Error("Expected error for inconsistent count")
	}
	if _, err := Read(bytes.NewBufferString(`[1, 2]`)); err == nil {
		tst.Error("Expected error for wrong json")
	}
}
