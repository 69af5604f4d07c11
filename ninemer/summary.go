package main

import (
	"bitbucket.org/abseq/ninemer/index"
	"bitbucket.org/abseq/ninemer/report"
)

// RunSummary is storing index run summary information.
type RunSummary struct {
	// Version stores ninemer version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Dataset is the input file name.
	Dataset string `json:"dataset"`
	// Headers are the dataset record headers. Their content is not
	// interpreted.
	Headers []string `json:"headers,omitempty"`
	// Length is the normalized sequence length.
	Length int `json:"length"`
	// Alphabet is the nucleotide alphabet name.
	Alphabet string `json:"alphabet"`
	// WindowLength and Step are the scan configuration.
	WindowLength int `json:"windowLength"`
	Step         int `json:"step"`
	// GeneticCode is the NCBI genetic code id.
	GeneticCode int `json:"geneticCode"`
	// Policy is the out-of-alphabet key policy.
	Policy string `json:"policy"`
	// Stats are the accumulation statistics.
	Stats index.Stats `json:"stats"`
	// Nucleotide and Amino describe the populated keyspaces.
	Nucleotide report.Summary `json:"nucleotide"`
	Amino      report.Summary `json:"amino"`
	// NucleotideFile and AminoFile are the written artifacts.
	NucleotideFile string `json:"nucleotideFile"`
	AminoFile      string `json:"aminoFile"`
	// Run is the archived run name.
	Run string `json:"run,omitempty"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}
