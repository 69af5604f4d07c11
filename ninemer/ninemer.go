/*

Ninemer indexes nucleotide datasets by 9-base windows and by the
amino acid triplets these windows translate to.

The canonical keyspaces (all 262,144 windows and all 9,261 triplets)
can be written with:

	ninemer keyspace --out data

A dataset (plain text or FASTA-like) is indexed with:

	ninemer index sequences.fasta --out data

, this scans codon frame aligned windows (step 3). Use --profile dense
for every offset. Runs can be stored in a bolt archive (--archive) and
queried later:

	ninemer runs runs.db
	ninemer lookup runs.db sequences MEL

To see all the options run:

	ninemer --help-long

*/
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/op/go-logging"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("ninemer")
var formatter = logging.MustStringFormatter(`%{message}`)

// loggers are all the package loggers levels are set for.
var loggers = []string{"ninemer", "index", "store", "archive"}

// command-line options
var (
	// application
	app = kingpin.New("ninemer", "nucleotide window and amino acid triplet indexer").Version(version)

	// logging
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")

	// keyspace command
	keyspaceCmd      = app.Command("keyspace", "write canonical (zero) keyspace files")
	keyspaceOut      = keyspaceCmd.Flag("out", "output directory").Default("data").String()
	keyspaceAlphabet = keyspaceCmd.Flag("alphabet", "nucleotide alphabet (dna, rna or iupac)").Default("dna").String()
	keyspaceWindow   = keyspaceCmd.Flag("window", "window length (multiple of 3)").Default("9").Int()
	keyspaceCompress = keyspaceCmd.Flag("compress", "snappy compress the files").Bool()

	// index command
	indexCmd        = app.Command("index", "index a sequence dataset").Default()
	datasetFileName = indexCmd.Arg("dataset", "plain text or FASTA-like nucleotide dataset").Required().ExistingFile()
	configF         = indexCmd.Flag("config", "JSON configuration file, command-line options override it").ExistingFile()
	alphabetName    = indexCmd.Flag("alphabet", "nucleotide alphabet (dna, rna or iupac), dna by default").String()
	profileName     = indexCmd.Flag("profile", "scan profile: frame (step 3, default) or dense (step 1)").String()
	windowLength    = indexCmd.Flag("window", "window length (multiple of 3), 9 by default").Int()
	step            = indexCmd.Flag("step", "distance between window offsets, overrides the profile").Int()
	gcodeID         = indexCmd.Flag("gcode", "NCBI genetic code id, standard by default").Int()
	policyName      = indexCmd.Flag("policy", "out-of-alphabet keys: extend (insert and warn, default) or reject (fail)").String()
	outDir          = indexCmd.Flag("out", "output directory, data by default").String()
	compressSet     bool
	compress        = indexCmd.Flag("compress", "snappy compress the output files (--no-compress overrides the config)").IsSetByUser(&compressSet).Bool()
	archiveF        = indexCmd.Flag("archive", "store the run in a bolt database").String()
	runName         = indexCmd.Flag("run", "run name in the archive, dataset file name by default").String()
	topSet          bool
	top             = indexCmd.Flag("top", "number of most frequent keys to report, 20 by default").IsSetByUser(&topSet).Int()
	plotF           = indexCmd.Flag("plot", "plot most frequent amino acid triplets to a file (png, svg, pdf)").String()
	traceF          = indexCmd.Flag("trace", "write offset, window and triplet of every window to a TSV file").String()
	jsonF           = indexCmd.Flag("json", "write json summary to a file").String()

	// runs command
	runsCmd     = app.Command("runs", "list runs in an archive")
	runsArchive = runsCmd.Arg("archive", "bolt database").Required().ExistingFile()

	// lookup command
	lookupCmd     = app.Command("lookup", "print statistics of a key in an archived run")
	lookupArchive = lookupCmd.Arg("archive", "bolt database").Required().ExistingFile()
	lookupRun     = lookupCmd.Arg("run", "run name").Required().String()
	lookupKey     = lookupCmd.Arg("key", "nucleotide window or amino acid key").Required().String()
)

// setupLogging sets the formatter, the backend and the level for all
// the package loggers.
func setupLogging() (closer func()) {
	logging.SetFormatter(formatter)

	closer = func() {}
	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		closer = func() { f.Close() }
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range loggers {
		logging.SetLevel(level, name)
	}
	return
}

// writeJSON writes v in json format to a file.
func writeJSON(fn string, v interface{}) error {
	j, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	log.Debug(string(j))
	return os.WriteFile(fn, append(j, '\n'), 0666)
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	closeLog := setupLogging()
	defer closeLog()

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	var err error
	switch command {
	case keyspaceCmd.FullCommand():
		err = runKeyspace(*keyspaceOut, *keyspaceAlphabet, *keyspaceWindow, *keyspaceCompress)
	case indexCmd.FullCommand():
		var s *runSettings
		s, err = newRunSettings()
		if err != nil {
			break
		}
		var summary *RunSummary
		summary, err = runIndex(s)
		if err != nil {
			break
		}
		summary.Version = version
		summary.CommandLine = os.Args
		if *jsonF != "" {
			if err := writeJSON(*jsonF, summary); err != nil {
				log.Error("Error writing json output file:", err)
			}
		}
	case runsCmd.FullCommand():
		err = listRuns(os.Stdout, *runsArchive)
	case lookupCmd.FullCommand():
		err = lookup(os.Stdout, *lookupArchive, *lookupRun, *lookupKey)
	}
	if err != nil {
		log.Fatal(err)
	}
}
