// Package seq provides the Seq value type for DNA, RNA and protein
// sequences, and the Record type pairing a Seq with a FASTA title.
package seq

import (
	log "github.com/sirupsen/logrus"

	"github.com/vertti/biokit/internal/codec"
)

// Kind is the alphabet a sequence is written in.
type Kind = codec.Kind

// Sequence kinds.
const (
	DNA     = codec.DNA
	RNA     = codec.RNA
	Protein = codec.Protein
)

// reprWidth is the length at which String starts eliding the middle.
const reprWidth = 60

// Seq is a typed biological sequence. Methods never modify the receiver;
// transforms return a new Seq.
type Seq struct {
	Kind Kind
	Data string // case preserved
}

// New returns a Seq of kind k.
func New(k Kind, data string) Seq {
	return Seq{Kind: k, Data: data}
}

// Len returns the number of residues.
func (s Seq) Len() int { return len(s.Data) }

// String shows the sequence, eliding the middle of long ones.
func (s Seq) String() string {
	if len(s.Data) < reprWidth {
		return "Seq(" + s.Data + ")"
	}
	half := reprWidth / 2
	return "Seq(" + s.Data[:half] + "..." + s.Data[len(s.Data)-half:] + ")"
}

// Check reports whether every residue belongs to the IUPAC alphabet of the
// sequence's kind, and returns the offending positions. It never fails;
// with verbose set, problems are logged as warnings.
func (s Seq) Check(verbose bool) (bool, []int) {
	switch s.Kind {
	case DNA, RNA, Protein:
	default:
		if verbose {
			log.WithField("kind", s.Kind).Warn("only DNA, RNA and Protein sequences can be checked")
		}
		return false, nil
	}

	bad := codec.Invalid(s.Kind, s.Data)
	if len(bad) > 0 && verbose {
		chars := make([]string, 0, len(bad))
		for _, i := range bad {
			chars = append(chars, string(s.Data[i]))
		}
		log.WithFields(log.Fields{
			"kind":      s.Kind,
			"positions": bad,
			"residues":  chars,
		}).Warnf("sequence has characters outside the %s alphabet", s.Kind)
	}
	return len(bad) == 0, bad
}

// Concat appends other's residues, keeping the receiver's kind.
func (s Seq) Concat(other Seq) Seq {
	return New(s.Kind, s.Data+other.Data)
}

// Reverse returns the residues in reverse order.
func (s Seq) Reverse() Seq {
	return New(s.Kind, codec.Reverse(s.Data))
}

// Complement returns the complementary strand. Protein sequences come back
// unchanged (with a logged warning).
func (s Seq) Complement() Seq {
	return New(s.Kind, codec.Complement(s.Kind, s.Data))
}

// ReverseComplement complements then reverses DNA/RNA; other kinds are
// only reversed.
func (s Seq) ReverseComplement() Seq {
	return New(s.Kind, codec.ReverseComplement(s.Kind, s.Data))
}

// Transcribe returns the RNA transcript of s.Data[start:].
func (s Seq) Transcribe(start int) (Seq, error) {
	data, err := codec.Transcribe(s.Kind, s.Data, start)
	if err != nil {
		return Seq{}, err
	}
	return New(RNA, data), nil
}

// ReverseTranscribe returns the DNA for the RNA in s.Data[start:].
func (s Seq) ReverseTranscribe(start int) (Seq, error) {
	data, err := codec.ReverseTranscribe(s.Kind, s.Data, start)
	if err != nil {
		return Seq{}, err
	}
	return New(DNA, data), nil
}

// Translate translates from the first AUG.
func (s Seq) Translate() (Seq, error) {
	data, err := codec.Translate(s.Kind, s.Data)
	if err != nil {
		return Seq{}, err
	}
	return New(Protein, data), nil
}

// TranslateAt translates from a fixed start index.
func (s Seq) TranslateAt(start int) (Seq, error) {
	data, err := codec.TranslateAt(s.Kind, s.Data, start)
	if err != nil {
		return Seq{}, err
	}
	return New(Protein, data), nil
}

// TranslateFrame translates using a signed frame offset from FindORF.
func (s Seq) TranslateFrame(frame int) (Seq, error) {
	data, err := codec.TranslateFrame(s.Kind, s.Data, frame)
	if err != nil {
		return Seq{}, err
	}
	return New(Protein, data), nil
}

// FindORF returns the signed frame offset of the first start codon.
func (s Seq) FindORF() (int, bool) {
	return codec.FindORF(s.Data)
}

// GCRatio returns the G+C fraction; ok is false for Protein or empty input.
func (s Seq) GCRatio(verbose bool) (float64, bool) {
	ratio, ok := codec.GCRatio(s.Kind, s.Data)
	if ok && verbose {
		codec.WarnIUPAC(s.Kind, s.Data)
	}
	return ratio, ok
}

// Count counts residue c, ignoring case.
func (s Seq) Count(c byte, verbose bool) int {
	if verbose {
		codec.WarnIUPAC(s.Kind, s.Data)
	}
	return codec.Count(s.Data, c)
}
