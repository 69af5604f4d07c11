package archive

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"bitbucket.org/abseq/ninemer/index"
	"bitbucket.org/abseq/ninemer/keyspace"
)

func openArchive(tst *testing.T) *Archive {
	a, err := Open(filepath.Join(tst.TempDir(), "runs.db"))
	if err != nil {
		tst.Fatal(err)
	}
	tst.Cleanup(func() { a.Close() })
	return a
}

func populated() (*keyspace.Keyspace, *keyspace.Keyspace) {
	nuc := keyspace.Nucleotide()
	amino := keyspace.Amino()
	nuc.Add("ATGGAGCTG", 0)
	nuc.Add("GAGCTGATG", 3)
	nuc.Add("ATGGAGCTG", 9)
	amino.Add("MEL", 0)
	amino.Add("ELM", 3)
	amino.Add("MEL", 9)
	amino.Add("M*L", 12)
	return nuc, amino
}

func TestSaveLoad(tst *testing.T) {
	a := openArchive(tst)
	nuc, amino := populated()
	info := &RunInfo{
		Name:         "run1",
		Dataset:      "data.fasta",
		Alphabet:     string(keyspace.DNA),
		WindowLength: 9,
		Step:         3,
		GeneticCode:  1,
		Stats:        index.Stats{Windows: 4, ExtraAmino: 1},
		Summary:      json.RawMessage(`{"entropy":1.5}`),
	}
	if err := a.Save(info, nuc, amino); err != nil {
		tst.Fatal(err)
	}

	info2, err := a.Info("run1")
	if err != nil {
		tst.Fatal(err)
	}
	if info2.Dataset != "data.fasta" || info2.Stats != info.Stats || string(info2.Summary) != `{"entropy":1.5}` {
		tst.Errorf("Wrong run info: %+v", info2)
	}

	entries, err := a.Entries("run1", index.KindAmino)
	if err != nil {
		tst.Fatal(err)
	}
	expected := keyspace.Entries{
		"MEL": {Count: 2, Indices: []int{0, 9}},
		"ELM": {Count: 1, Indices: []int{3}},
		"M*L": {Count: 1, Indices: []int{12}},
	}
	if !reflect.DeepEqual(entries, expected) {
		tst.Errorf("Wrong entries: %v", entries)
	}

	s, err := a.Lookup("run1", index.KindNucleotide, "ATGGAGCTG")
	if err != nil {
		tst.Fatal(err)
	}
	if s.Count != 2 || !reflect.DeepEqual(s.Indices, []int{0, 9}) {
		tst.Errorf("Wrong stats: %+v", s)
	}
	s, err = a.Lookup("run1", index.KindNucleotide, "AAAAAAAAA")
	if err != nil {
		tst.Fatal(err)
	}
	if s.Count != 0 || len(s.Indices) != 0 {
		tst.Errorf("Unobserved key has stats: %+v", s)
	}
}

func TestReplace(tst *testing.T) {
	a := openArchive(tst)
	nuc, amino := populated()
	if err := a.Save(&RunInfo{Name: "r"}, nuc, amino); err != nil {
		tst.Fatal(err)
	}
	if err := a.Save(&RunInfo{Name: "r"}, keyspace.Nucleotide(), keyspace.Amino()); err != nil {
		tst.Fatal(err)
	}
	entries, err := a.Entries("r", index.KindAmino)
	if err != nil {
		tst.Fatal(err)
	}
	if len(entries) != 0 {
		tst.Error("Runs were merged instead of replaced")
	}
}

func TestRuns(tst *testing.T) {
	a := openArchive(tst)
	runs, err := a.Runs()
	if err != nil || len(runs) != 0 {
		tst.Fatal("Expected empty archive", err)
	}
	nuc, amino := populated()
	for _, name := range []string{"b", "a", "c"} {
		if err := a.Save(&RunInfo{Name: name}, nuc, amino); err != nil {
			tst.Fatal(err)
		}
	}
	if err := a.Delete("c"); err != nil {
		tst.Fatal(err)
	}
	runs, err = a.Runs()
	if err != nil {
		tst.Fatal(err)
	}
	if len(runs) != 2 || runs[0].Name != "a" || runs[1].Name != "b" {
		tst.Errorf("Wrong runs: %v", runs)
	}
}

func TestNoRun(tst *testing.T) {
	a := openArchive(tst)
	if _, err := a.Info("missing"); !errors.Is(err, ErrNoRun) {
		tst.Error("Expected ErrNoRun, got", err)
	}
	if _, err := a.Entries("missing", index.KindAmino); !errors.Is(err, ErrNoRun) {
		tst.Error("Expected ErrNoRun, got", err)
	}
	if err := a.Delete("missing"); !errors.Is(err, ErrNoRun) {
		tst.Error("Expected ErrNoRun, got", err)
	}
	if err := a.Save(&RunInfo{}, keyspace.Nucleotide(), keyspace.Amino()); err == nil {
		tst.Error("Expected error for a run without a name")
	}
}
