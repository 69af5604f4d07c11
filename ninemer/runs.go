package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bitbucket.org/abseq/ninemer/archive"
	"bitbucket.org/abseq/ninemer/index"
)

// listRuns prints all the archived runs.
func listRuns(w io.Writer, fn string) error {
	a, err := archive.Open(fn)
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.Runs()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "run\ttime\tdataset\twindow\tstep\tgcode\twindows")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.Name, r.Time.Format("2006-01-02 15:04:05"), r.Dataset,
			r.WindowLength, r.Step, r.GeneticCode, r.Stats.Windows)
	}
	return tw.Flush()
}

// lookup prints statistics of a single key. The keyspace is chosen by
// the key length.
func lookup(w io.Writer, fn, run, key string) error {
	a, err := archive.Open(fn)
	if err != nil {
		return err
	}
	defer a.Close()

	key = strings.ToUpper(key)
	info, err := a.Info(run)
	if err != nil {
		return err
	}
	var kind index.Kind
	switch len(key) {
	case info.WindowLength:
		kind = index.KindNucleotide
	case info.WindowLength / 3:
		kind = index.KindAmino
	default:
		return fmt.Errorf("key length should be %d or %d", info.WindowLength, info.WindowLength/3)
	}

	s, err := a.Lookup(run, kind, key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\t%s\tcount=%d\tindices=%v\n", kind, key, s.Count, s.Indices)
	return err
}
