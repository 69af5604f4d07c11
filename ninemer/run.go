package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"bitbucket.org/abseq/ninemer/archive"
	"bitbucket.org/abseq/ninemer/bio"
	"bitbucket.org/abseq/ninemer/codon"
	"bitbucket.org/abseq/ninemer/index"
	"bitbucket.org/abseq/ninemer/keyspace"
	"bitbucket.org/abseq/ninemer/report"
	"bitbucket.org/abseq/ninemer/scan"
	"bitbucket.org/abseq/ninemer/store"
)

// readDataset reads and normalizes the dataset file.
func readDataset(fn string) (*bio.Dataset, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return bio.ReadDataset(f)
}

// newKeyspaces generates fresh nucleotide and amino acid keyspaces.
func newKeyspaces(alphabet keyspace.Alphabet, windowLength int) (nuc, amino *keyspace.Keyspace, err error) {
	if windowLength%3 != 0 {
		return nil, nil, fmt.Errorf("window length %d doesn't divide by 3", windowLength)
	}
	nuc, err = keyspace.Generate(alphabet, windowLength)
	if err != nil {
		return nil, nil, err
	}
	amino, err = keyspace.Generate(keyspace.AminoAcids, windowLength/3)
	if err != nil {
		return nil, nil, err
	}
	return nuc, amino, nil
}

// runKeyspace writes the canonical keyspace files.
func runKeyspace(dir, alphabetName string, windowLength int, compress bool) error {
	alphabet, err := keyspace.AlphabetByName(alphabetName)
	if err != nil {
		return err
	}
	nuc, amino, err := newKeyspaces(alphabet, windowLength)
	if err != nil {
		return err
	}
	nucPath, aminoPath, err := store.SaveCanonical(nuc, amino, dir, store.Options{Compress: compress})
	if err != nil {
		return err
	}
	log.Noticef("Wrote %d nucleotide windows to %s", nuc.Len(), nucPath)
	log.Noticef("Wrote %d amino acid keys to %s", amino.Len(), aminoPath)
	return nil
}

// traceWriter writes processed windows as TSV.
type traceWriter struct {
	w   *bufio.Writer
	err error
}

func newTraceWriter(w io.Writer) *traceWriter {
	tw := &traceWriter{w: bufio.NewWriter(w)}
	_, tw.err = tw.w.WriteString("offset\twindow\ttriplet\n")
	return tw
}

func (tw *traceWriter) write(r index.Record) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, "%d\t%s\t%s\n", r.Offset, r.Window, r.Triplet)
}

func (tw *traceWriter) flush() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.w.Flush()
}

// runIndex scans the dataset, accumulates both keyspaces and writes
// the results.
func runIndex(s *runSettings) (summary *RunSummary, err error) {
	startTime := time.Now()

	log.Infof("Genetic code: %d, \"%s\"", s.gcode.ID, s.gcode.Name)
	log.Infof("Alphabet: %s (%s), scan: %v, policy: %v", s.alphabetName, s.alphabet, s.scan, s.policy)

	ds, err := readDataset(s.dataset)
	if err != nil {
		return nil, err
	}
	log.Infof("Read sequence of %d bases, %d header(s)", ds.Len(), len(ds.Headers))
	if ds.Len() < s.scan.WindowLength {
		log.Warningf("Sequence is shorter than the window length (%d), no windows", s.scan.WindowLength)
	}

	nuc, amino, err := newKeyspaces(s.alphabet, s.scan.WindowLength)
	if err != nil {
		return nil, err
	}
	log.Debug(nuc)
	log.Debug(amino)

	tr, err := codon.NewTranslator(s.gcode, s.scan.WindowLength)
	if err != nil {
		return nil, err
	}
	scanner, err := scan.NewScanner(ds.Sequence, s.scan)
	if err != nil {
		return nil, err
	}
	acc, err := index.New(nuc, amino, tr, s.policy)
	if err != nil {
		return nil, err
	}

	var trace func(index.Record)
	var tw *traceWriter
	if s.trace != "" {
		f, err := os.Create(s.trace)
		if err != nil {
			return nil, fmt.Errorf("creating trace file: %w", err)
		}
		defer f.Close()
		tw = newTraceWriter(f)
		trace = tw.write
	}

	log.Infof("Scanning %d windows", scanner.Len())
	if err := acc.Accumulate(scanner, trace); err != nil {
		return nil, err
	}
	if tw != nil {
		if err := tw.flush(); err != nil {
			return nil, fmt.Errorf("writing trace file: %w", err)
		}
	}

	nucPath, aminoPath, err := store.Save(nuc, amino, s.outDir, store.Options{Compress: s.compress})
	if err != nil {
		return nil, err
	}

	summary = &RunSummary{
		Dataset:        s.dataset,
		Headers:        ds.Headers,
		Length:         ds.Len(),
		Alphabet:       s.alphabetName,
		WindowLength:   s.scan.WindowLength,
		Step:           s.scan.Step,
		GeneticCode:    s.gcode.ID,
		Policy:         s.policy.String(),
		Stats:          acc.Stats,
		Nucleotide:     report.Describe(nuc, s.top),
		Amino:          report.Describe(amino, s.top),
		NucleotideFile: nucPath,
		AminoFile:      aminoPath,
	}
	log.Noticef("Windows: %d, distinct nucleotide windows: %d, distinct amino acid keys: %d",
		acc.Stats.Windows, summary.Nucleotide.Observed, summary.Amino.Observed)
	log.Infof("Entropy: nucleotide %.4f bits, amino acid %.4f bits",
		summary.Nucleotide.Entropy, summary.Amino.Entropy)

	if s.plot != "" {
		title := fmt.Sprintf("%d most frequent amino acid keys", len(summary.Amino.Top))
		if err := report.PlotTop(summary.Amino.Top, title, s.plot); err != nil {
			log.Error("Error plotting:", err)
		} else {
			log.Infof("Plot saved to %s", s.plot)
		}
	}

	if s.archive != "" {
		if err := archiveRun(s, summary, nuc, amino); err != nil {
			return nil, err
		}
		summary.Run = s.run
	}

	summary.Time = time.Since(startTime).Seconds()
	log.Noticef("Running time: %v", time.Since(startTime))
	return summary, nil
}

// archiveRun stores the run in the bolt archive.
func archiveRun(s *runSettings, summary *RunSummary, nuc, amino *keyspace.Keyspace) error {
	a, err := archive.Open(s.archive)
	if err != nil {
		return err
	}
	defer a.Close()

	sj, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	info := &archive.RunInfo{
		Name:         s.run,
		Time:         time.Now(),
		Dataset:      s.dataset,
		Alphabet:     string(s.alphabet),
		WindowLength: s.scan.WindowLength,
		Step:         s.scan.Step,
		GeneticCode:  s.gcode.ID,
		Stats:        summary.Stats,
		Summary:      sj,
	}
	if err := a.Save(info, nuc, amino); err != nil {
		return err
	}
	log.Noticef("Run %s saved to %s", s.run, s.archive)
	return nil
}
