package report

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"bitbucket.org/abseq/ninemer/keyspace"
)

const smallDiff = 1e-9

func amino() *keyspace.Keyspace {
	ks := keyspace.Amino()
	ks.Add("MEL", 0)
	ks.Add("ELM", 3)
	ks.Add("LME", 6)
	ks.Add("MEL", 9)
	return ks
}

func TestTop(tst *testing.T) {
	top := Top(amino(), 2)
	expected := []KeyCount{{"MEL", 2}, {"ELM", 1}}
	if !reflect.DeepEqual(top, expected) {
		tst.Errorf("Expected %v, got %v", expected, top)
	}
	if all := Top(amino(), -1); len(all) != 3 {
		tst.Errorf("Expected 3 keys, got %d", len(all))
	}
	if none := Top(keyspace.Amino(), 5); len(none) != 0 {
		tst.Error("Fresh keyspace has top keys")
	}
}

func TestEntropy(tst *testing.T) {
	ks := keyspace.Amino()
	if Entropy(ks) != 0 {
		tst.Error("Entropy of an empty keyspace should be zero")
	}
	ks.Add("MEL", 0)
	if math.Abs(Entropy(ks)) > smallDiff {
		tst.Error("Entropy of a single key should be zero")
	}
	ks.Add("ELM", 3)
	if math.Abs(Entropy(ks)-1) > smallDiff {
		tst.Errorf("Expected 1 bit, got %v", Entropy(ks))
	}
	// 2/4, 1/4, 1/4
	if e := Entropy(amino()); math.Abs(e-1.5) > smallDiff {
		tst.Errorf("Expected 1.5 bits, got %v", e)
	}
}

func TestDescribe(tst *testing.T) {
	ks := amino()
	ks.Add("M*L", 12)
	s := Describe(ks, 1)
	if s.Keys != 9262 || s.Cardinality != 9261 || s.Observed != 4 || s.Total != 5 {
		tst.Errorf("Wrong summary: %+v", s)
	}
	if math.Abs(s.Coverage-3.0/9261) > smallDiff {
		tst.Errorf("Wrong coverage: %v", s.Coverage)
	}
	if len(s.Extra) != 1 || s.Extra[0] != "M*L" {
		tst.Errorf("Wrong extra keys: %v", s.Extra)
	}
	if len(s.Top) != 1 || s.Top[0].Key != "MEL" {
		tst.Errorf("Wrong top keys: %v", s.Top)
	}
}

func TestPlotTop(tst *testing.T) {
	path := filepath.Join(tst.TempDir(), "top.svg")
	if err := PlotTop(Top(amino(), 10), "amino acid triplets", path); err != nil {
		tst.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		tst.Error("Plot wasn't written", err)
	}
	if err := PlotTop(nil, "empty", path); err == nil {
		tst.Error("Expected error for an empty plot")
	}
}
