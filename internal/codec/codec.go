package codec

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Kind is the alphabet a sequence is written in.
type Kind uint8

// Sequence kinds.
const (
	DNA Kind = iota
	RNA
	Protein
)

func (k Kind) String() string {
	switch k {
	case DNA:
		return "DNA"
	case RNA:
		return "RNA"
	case Protein:
		return "Protein"
	default:
		return "unknown"
	}
}

// ParseKind parses "DNA", "RNA" or "Protein" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(s) {
	case "DNA":
		return DNA, nil
	case "RNA":
		return RNA, nil
	case "PROTEIN":
		return Protein, nil
	default:
		return 0, errors.Errorf("unknown sequence kind %q", s)
	}
}

// Errors returned when an operation has no result for its input.
var (
	ErrWrongKind    = errors.New("operation not defined for this sequence kind")
	ErrNoORF        = errors.New("no open reading frame found")
	ErrInvalidBase  = errors.New("non-ACGU base in translation window")
	ErrOutOfRange   = errors.New("start index out of range")
	ErrInvalidFrame = errors.New("frame must be one of ±1, ±2, ±3")
)

// Complement returns the base-wise complement of data, preserving case.
// Protein input is returned unchanged with a warning.
func Complement(k Kind, data string) string {
	switch k {
	case DNA:
		return mapBytes(&dnaComplement, data)
	case RNA:
		return mapBytes(&rnaComplement, data)
	default:
		log.WithField("kind", k).Warn("only DNA or RNA sequences have a complement")
		return data
	}
}

// ReverseComplement complements then reverses DNA and RNA. Any other kind is
// only reversed.
func ReverseComplement(k Kind, data string) string {
	if k == DNA || k == RNA {
		return Reverse(Complement(k, data))
	}
	return Reverse(data)
}

// Reverse returns data with its bytes in reverse order.
func Reverse(data string) string {
	n := len(data)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = data[n-1-i]
	}
	return string(out)
}

// Transcribe pairs each DNA base of data[start:] with its RNA partner and
// reverses the result, giving the transcript of a template strand read 5'->3'.
func Transcribe(k Kind, data string, start int) (string, error) {
	if k != DNA {
		return "", errors.Wrapf(ErrWrongKind, "transcribe %s", k)
	}
	if start < 0 || start > len(data) {
		return "", errors.Wrapf(ErrOutOfRange, "transcribe from %d of %d", start, len(data))
	}
	return Reverse(mapBytes(&dnaToRNA, data[start:])), nil
}

// ReverseTranscribe is the inverse of Transcribe: RNA in, DNA out, with the
// same pair-then-reverse convention.
func ReverseTranscribe(k Kind, data string, start int) (string, error) {
	if k != RNA {
		return "", errors.Wrapf(ErrWrongKind, "reverse transcribe %s", k)
	}
	if start < 0 || start > len(data) {
		return "", errors.Wrapf(ErrOutOfRange, "reverse transcribe from %d of %d", start, len(data))
	}
	return Reverse(mapBytes(&rnaToDNA, data[start:])), nil
}

// Translate translates RNA starting at the first AUG codon.
func Translate(k Kind, data string) (string, error) {
	if k != RNA {
		return "", errors.Wrapf(ErrWrongKind, "translate %s", k)
	}
	start := strings.Index(strings.ToUpper(data), StartCodon)
	if start < 0 {
		return "", ErrNoORF
	}
	return TranslateAt(k, data, start)
}

// TranslateAt reads codons from data[start:] until a stop codon, an unknown
// codon or the end of the sequence. The window must contain only A, C, G and U
// (either case).
func TranslateAt(k Kind, data string, start int) (string, error) {
	if k != RNA {
		return "", errors.Wrapf(ErrWrongKind, "translate %s", k)
	}
	if start < 0 || start > len(data) {
		return "", errors.Wrapf(ErrOutOfRange, "translate from %d of %d", start, len(data))
	}

	window := strings.ToUpper(data[start:])
	for i := 0; i < len(window); i++ {
		switch window[i] {
		case 'A', 'C', 'G', 'U':
		default:
			return "", errors.Wrapf(ErrInvalidBase, "%q at %d", window[i], start+i)
		}
	}

	var protein strings.Builder
	protein.Grow(len(window) / 3)
	for i := 0; i+3 <= len(window); i += 3 {
		aa, ok := Codon(window[i : i+3])
		if !ok || aa == "" {
			break
		}
		protein.WriteString(aa)
	}
	return protein.String(), nil
}

// TranslateFrame translates using a signed frame offset as returned by
// FindORF: +n starts at index n-1, -n starts at index n-1 of the reversed
// sequence.
func TranslateFrame(k Kind, data string, frame int) (string, error) {
	switch {
	case frame >= 1 && frame <= 3:
		return TranslateAt(k, data, frame-1)
	case frame <= -1 && frame >= -3:
		return TranslateAt(k, Reverse(data), -frame-1)
	default:
		return "", errors.Wrapf(ErrInvalidFrame, "got %d", frame)
	}
}

// FindORF locates the first AUG from the 5' end and returns 1+(index mod 3).
// Failing that, it searches the reversed sequence and returns the negated
// offset. ok is false when neither direction has an AUG.
func FindORF(data string) (frame int, ok bool) {
	upper := strings.ToUpper(data)
	if i := strings.Index(upper, StartCodon); i >= 0 {
		return 1 + i%3, true
	}
	if i := strings.Index(Reverse(upper), StartCodon); i >= 0 {
		return -(1 + i%3), true
	}
	return 0, false
}

// GCRatio returns (count(G)+count(C))/length. It is undefined for Protein
// and for empty sequences.
func GCRatio(k Kind, data string) (float64, bool) {
	if k == Protein || len(data) == 0 {
		return 0, false
	}
	gc := Count(data, 'G') + Count(data, 'C')
	return float64(gc) / float64(len(data)), true
}

// Count counts occurrences of c in data, ignoring case.
func Count(data string, c byte) int {
	return strings.Count(strings.ToUpper(data), strings.ToUpper(string(c)))
}

// Invalid returns the 0-based positions of data that fall outside the IUPAC
// alphabet for k, compared case-insensitively.
func Invalid(k Kind, data string) []int {
	var allowed *[256]bool
	switch k {
	case DNA:
		allowed = &dnaAlphabet
	case RNA:
		allowed = &rnaAlphabet
	case Protein:
		allowed = &proteinAlphabet
	default:
		return nil
	}

	var bad []int
	for i := 0; i < len(data); i++ {
		if !allowed[data[i]] {
			bad = append(bad, i)
		}
	}
	return bad
}

// Ambiguous reports whether a DNA or RNA sequence uses anything beyond the
// four unambiguous bases of its kind.
func Ambiguous(k Kind, data string) bool {
	var canonical string
	switch k {
	case DNA:
		canonical = "ACGT"
	case RNA:
		canonical = "ACGU"
	default:
		return false
	}
	for i := 0; i < len(data); i++ {
		if strings.IndexByte(canonical, upper(data[i])) < 0 {
			return true
		}
	}
	return false
}

// WarnIUPAC logs a warning when data contains ambiguity codes.
func WarnIUPAC(k Kind, data string) {
	if Ambiguous(k, data) {
		log.WithField("kind", k).Warn("sequence has undecided IUPAC codes")
	}
}

func mapBytes(t *[256]byte, data string) string {
	out := make([]byte, len(data))
	for i := 0; i < len(data); i++ {
		out[i] = t[data[i]]
	}
	return string(out)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
