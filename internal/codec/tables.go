// Package codec holds the sequence lookup tables (complement, transcription,
// codon and IUPAC alphabets) and the pure functions built on them.
package codec

// Version identifies the revision of the tables in this package.
const Version = "1"

// NucleotideIUPAC is the 16-symbol IUPAC nucleotide alphabet, including both T and U.
// See http://www.incodom.kr/IUPAC.
const NucleotideIUPAC = "ACGTURYMKWSBDHVN"

// AminoAcidIUPAC is the 23-symbol IUPAC amino-acid alphabet.
const AminoAcidIUPAC = "ARNDCQEGHILKMFPSTWYVBZX"

// StartCodon opens a reading frame.
const StartCodon = "AUG"

// iupacPairs are the ambiguity codes shared by the DNA and RNA complement tables.
var iupacPairs = [][2]byte{
	{'R', 'Y'}, {'M', 'K'}, {'W', 'W'}, {'S', 'S'}, {'B', 'V'}, {'D', 'H'}, {'N', 'N'},
}

// codonTable maps RNA codons to one-letter amino acids. Stop codons map to "".
var codonTable = map[string]string{
	"UUU": "F", "UUC": "F", "UUA": "L", "UUG": "L",
	"UCU": "S", "UCC": "S", "UCA": "S", "UCG": "S",
	"UAU": "Y", "UAC": "Y", "UAA": "", "UAG": "",
	"UGU": "C", "UGC": "C", "UGA": "", "UGG": "W",

	"CUU": "L", "CUC": "L", "CUA": "L", "CUG": "L",
	"CCU": "P", "CCC": "P", "CCA": "P", "CCG": "P",
	"CAU": "H", "CAC": "H", "CAA": "Q", "CAG": "Q",
	"CGU": "R", "CGC": "R", "CGA": "R", "CGG": "R",

	"AUU": "I", "AUC": "I", "AUA": "I", "AUG": "M",
	"ACU": "T", "ACC": "T", "ACA": "T", "ACG": "T",
	"AAU": "N", "AAC": "N", "AAA": "K", "AAG": "K",
	"AGU": "S", "AGC": "S", "AGA": "R", "AGG": "R",

	"GUU": "V", "GUC": "V", "GUA": "V", "GUG": "V",
	"GCU": "A", "GCC": "A", "GCA": "A", "GCG": "A",
	"GAU": "D", "GAC": "D", "GAA": "E", "GAG": "E",
	"GGU": "G", "GGC": "G", "GGA": "G", "GGG": "G",
}

var (
	dnaComplement [256]byte
	rnaComplement [256]byte
	dnaToRNA      [256]byte
	rnaToDNA      [256]byte

	dnaAlphabet     [256]bool
	rnaAlphabet     [256]bool
	proteinAlphabet [256]bool
)

func init() {
	// Unknown bytes map to themselves.
	for i := range 256 {
		dnaComplement[i] = byte(i)
		rnaComplement[i] = byte(i)
		dnaToRNA[i] = byte(i)
		rnaToDNA[i] = byte(i)
	}

	setPair(&dnaComplement, 'A', 'T')
	setPair(&dnaComplement, 'G', 'C')
	setPair(&rnaComplement, 'A', 'U')
	setPair(&rnaComplement, 'G', 'C')
	for _, p := range iupacPairs {
		for _, t := range []*[256]byte{&dnaComplement, &rnaComplement, &dnaToRNA, &rnaToDNA} {
			setPair(t, p[0], p[1])
		}
	}

	// Template-strand pairing is not symmetric, so each direction gets its own list.
	for _, m := range [][2]byte{{'A', 'U'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'}} {
		setOne(&dnaToRNA, m[0], m[1])
	}
	for _, m := range [][2]byte{{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'U', 'A'}} {
		setOne(&rnaToDNA, m[0], m[1])
	}

	for _, b := range []byte(NucleotideIUPAC) {
		if b != 'U' {
			setAllowed(&dnaAlphabet, b)
		}
		if b != 'T' {
			setAllowed(&rnaAlphabet, b)
		}
	}
	for _, b := range []byte(AminoAcidIUPAC) {
		setAllowed(&proteinAlphabet, b)
	}
}

// setPair records a<->b in both cases.
func setPair(t *[256]byte, a, b byte) {
	setOne(t, a, b)
	setOne(t, b, a)
}

// setOne records a->b, mirrored into lower case.
func setOne(t *[256]byte, a, b byte) {
	t[a] = b
	t[lower(a)] = lower(b)
}

func setAllowed(t *[256]bool, b byte) {
	t[b] = true
	t[lower(b)] = true
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

// Codon returns the amino acid for an upper-case RNA codon. A stop codon
// returns "" with ok true; an unknown codon returns ok false.
func Codon(codon string) (aa string, ok bool) {
	aa, ok = codonTable[codon]
	return aa, ok
}
