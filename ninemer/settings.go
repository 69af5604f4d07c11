package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bitbucket.org/abseq/ninemer/bio"
	"bitbucket.org/abseq/ninemer/index"
	"bitbucket.org/abseq/ninemer/keyspace"
	"bitbucket.org/abseq/ninemer/scan"
)

const (
	defaultOutDir = "data"
	defaultTop    = 20
)

// fileConfig is the JSON configuration file. Zero values mean the
// option is not set.
type fileConfig struct {
	// Alphabet is the nucleotide alphabet name (dna, rna, iupac).
	Alphabet string

	// Profile is the scan profile name (frame or dense).
	Profile string

	// WindowLength and Step override the profile.
	WindowLength int
	Step         int

	// GeneticCode is the NCBI genetic code id.
	GeneticCode int

	// Policy is extend or reject.
	Policy string

	// OutDir is the directory for the keyspace files.
	OutDir string

	// Compress enables snappy compression of the keyspace files.
	Compress bool

	// Archive is the bolt database file, Run is the run name.
	Archive string
	Run     string

	// Top is the number of most frequent keys reported.
	Top int

	// Plot is the plot file name.
	Plot string

	// compressSet and topSet are true if the flags were passed, so
	// false and zero override the configuration.
	compressSet bool
	topSet      bool
}

// readConfig reads the JSON configuration file.
func readConfig(filename string) (*fileConfig, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	config := new(fileConfig)
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", filename, err)
	}
	return config, nil
}

// firstString returns the first non-empty string.
func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstInt returns the first non-zero value.
func firstInt(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

// runSettings stores settings for an index run.
type runSettings struct {
	dataset string

	alphabetName string
	alphabet     keyspace.Alphabet
	scan         scan.Config
	gcode        *bio.GeneticCode
	policy       index.Policy

	outDir   string
	compress bool

	archive string
	run     string

	top   int
	plot  string
	trace string
}

// newRunSettings creates runSettings from the command line parameters
// (global variables) and the configuration file.
func newRunSettings() (*runSettings, error) {
	cfg := &fileConfig{}
	if *configF != "" {
		var err error
		cfg, err = readConfig(*configF)
		if err != nil {
			return nil, err
		}
		log.Infof("Read configuration from %s", *configF)
	}
	return cfg.settings(*datasetFileName, &fileConfig{
		Alphabet:     *alphabetName,
		Profile:      *profileName,
		WindowLength: *windowLength,
		Step:         *step,
		GeneticCode:  *gcodeID,
		Policy:       *policyName,
		OutDir:       *outDir,
		Compress:     *compress,
		compressSet:  compressSet,
		Archive:      *archiveF,
		Run:          *runName,
		Top:          *top,
		topSet:       topSet,
		Plot:         *plotF,
	}, *traceF)
}

// settings combines the configuration with the command-line options
// (flags), which take precedence.
func (cfg *fileConfig) settings(dataset string, flags *fileConfig, trace string) (*runSettings, error) {
	s := &runSettings{
		dataset:  dataset,
		outDir:   firstString(flags.OutDir, cfg.OutDir, defaultOutDir),
		compress: cfg.Compress,
		archive:  firstString(flags.Archive, cfg.Archive),
		top:      firstInt(cfg.Top, defaultTop),
		plot:     firstString(flags.Plot, cfg.Plot),
		trace:    trace,
	}
	if flags.compressSet || flags.Compress {
		s.compress = flags.Compress
	}
	if flags.topSet || flags.Top != 0 {
		s.top = flags.Top
	}
	if s.top < 0 {
		return nil, fmt.Errorf("negative number of top keys: %d", s.top)
	}

	var err error
	s.alphabetName = strings.ToLower(firstString(flags.Alphabet, cfg.Alphabet, "dna"))
	s.alphabet, err = keyspace.AlphabetByName(s.alphabetName)
	if err != nil {
		return nil, err
	}

	s.scan, err = scan.ProfileByName(firstString(flags.Profile, cfg.Profile, "frame"))
	if err != nil {
		return nil, err
	}
	s.scan.WindowLength = firstInt(flags.WindowLength, cfg.WindowLength, s.scan.WindowLength)
	s.scan.Step = firstInt(flags.Step, cfg.Step, s.scan.Step)
	if err := s.scan.Validate(); err != nil {
		return nil, err
	}

	id := firstInt(flags.GeneticCode, cfg.GeneticCode, 1)
	gcode, ok := bio.GeneticCodes[id]
	if !ok {
		return nil, fmt.Errorf("couldn't load genetic code with id=%d", id)
	}
	s.gcode = gcode

	s.policy, err = index.PolicyByName(firstString(flags.Policy, cfg.Policy, "extend"))
	if err != nil {
		return nil, err
	}

	if s.archive != "" {
		name := strings.TrimSuffix(filepath.Base(dataset), filepath.Ext(dataset))
		s.run = firstString(flags.Run, cfg.Run, name)
	}
	return s, nil
}
