// Package bio provides the genetic code tables and a reader for
// plain or FASTA-like nucleotide datasets.
package bio

import (
	"bufio"
	"io"
	"strings"
)

// HeaderMarker starts a record header line.
const HeaderMarker = '>'

// Dataset is a normalized nucleotide dataset. All the sequence lines
// are concatenated into a single upper-case Sequence, header lines are
// kept separately without the marker.
type Dataset struct {
	Headers  []string
	Sequence string
}

// ReadDataset reads a plain text or FASTA-like dataset. Lines
// starting with HeaderMarker are not part of the sequence, all other
// lines are stripped of whitespace, concatenated and converted to
// the upper case. Offsets computed on the Sequence are therefore
// relative to the normalized sequence and not to the raw file.
func ReadDataset(rd io.Reader) (*Dataset, error) {
	var b strings.Builder
	ds := &Dataset{}

	br := bufio.NewReader(rd)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if line[0] == HeaderMarker {
				ds.Headers = append(ds.Headers, strings.TrimSpace(line[1:]))
			} else {
				for _, f := range strings.Fields(line) {
					b.WriteString(strings.ToUpper(f))
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	ds.Sequence = b.String()
	return ds, nil
}

// Len returns the length of the normalized sequence.
func (ds *Dataset) Len() int {
	return len(ds.Sequence)
}
