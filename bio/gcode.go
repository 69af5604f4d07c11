package bio

import "fmt"

const (
	// StopAA is the amino acid letter used for stop codons.
	StopAA = '*'
	// UnknownAA is returned for codons which are not in the table,
	// e.g. codons with ambiguous nucleotides.
	UnknownAA = 'X'
)

// ncbiOrder is the nucleotide order used by NCBI in ncbieaa strings.
const ncbiOrder = "TCAG"

// GeneticCode stores a genetic code (translation table).
type GeneticCode struct {
	ID        int
	Name      string
	ShortName string
	// Map is a map, codon string (capital letters) is the key,
	// amino acids (capital letter or StopAA) are values.
	Map map[string]byte
}

// newGeneticCode creates a genetic code from an NCBI ncbieaa string.
// The string lists amino acids for all 64 codons in TCAG order.
func newGeneticCode(id int, name, shortName, ncbieaa string) *GeneticCode {
	if len(ncbieaa) != 64 {
		panic(fmt.Sprintf("genetic code %d: wrong ncbieaa length %d", id, len(ncbieaa)))
	}
	gc := &GeneticCode{
		ID:        id,
		Name:      name,
		ShortName: shortName,
		Map:       make(map[string]byte, 64),
	}
	i := 0
	for _, l1 := range []byte(ncbiOrder) {
		for _, l2 := range []byte(ncbiOrder) {
			for _, l3 := range []byte(ncbiOrder) {
				gc.Map[string([]byte{l1, l2, l3})] = ncbieaa[i]
				i++
			}
		}
	}
	return gc
}

// GeneticCodes is a map holding genetic codes by NCBI id.
var GeneticCodes = map[int]*GeneticCode{
	1: newGeneticCode(1,
		"Standard",
		"SGC0",
		"FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG"),
	2: newGeneticCode(2,
		"Vertebrate Mitochondrial",
		"SGC1",
		"FFLLSSSSYY**CCWWLLLLPPPPHHQQRRRRIIMMTTTTNNKKSS**VVVVAAAADDEEGGGG"),
	3: newGeneticCode(3,
		"Yeast Mitochondrial",
		"SGC2",
		"FFLLSSSSYY**CCWWTTTTPPPPHHQQRRRRIIMMTTTTNNKKSSRRVVVVAAAADDEEGGGG"),
	11: newGeneticCode(11,
		"Bacterial, Archaeal and Plant Plastid",
		"",
		"FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG"),
}

// Standard is the standard genetic code.
var Standard = GeneticCodes[1]

// Codon translates a single codon (DNA alphabet, capital letters).
// UnknownAA is returned for anything which is not in the table.
func (gc *GeneticCode) Codon(codon string) byte {
	aa, ok := gc.Map[codon]
	if !ok {
		return UnknownAA
	}
	return aa
}

// IsStopCodon tests if the string is a stop-codon (DNA alphabet,
// capital letters).
func (gc *GeneticCode) IsStopCodon(codon string) bool {
	return gc.Map[codon] == StopAA
}

func (gc *GeneticCode) String() string {
	return fmt.Sprintf("<GC: ID=%d, Name=\"%s\">", gc.ID, gc.Name)
}
