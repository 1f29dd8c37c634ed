package vcf

import (
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// GT is the FORMAT key holding a sample's genotype.
const GT = "GT"

// genotypes returns the GT value of every sample column in a data line.
// ok is false when the active header has no FORMAT column or the line's
// FORMAT has no GT key. Samples whose column or GT value is missing are
// left out.
func (s *Stream) genotypes(line string) (gts []string, ok bool) {
	formatIdx := slices.Index(s.header, ColFormat)
	if formatIdx < 0 {
		return nil, false
	}
	cols := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if formatIdx >= len(cols) {
		return nil, false
	}
	gtIdx := slices.Index(strings.Split(cols[formatIdx], ":"), GT)
	if gtIdx < 0 {
		return nil, false
	}

	for i := formatIdx + 1; i < len(s.header) && i < len(cols); i++ {
		parts := strings.Split(cols[i], ":")
		if gtIdx < len(parts) {
			gts = append(gts, parts[gtIdx])
		}
	}
	return gts, true
}

// HasGenotype reports whether at least one sample of line has a genotype in
// set.
func (s *Stream) HasGenotype(line string, set []string) bool {
	gts, ok := s.genotypes(line)
	if !ok {
		return false
	}
	for _, gt := range gts {
		if slices.Contains(set, gt) {
			return true
		}
	}
	return false
}

// IsPartOfGenotypes reports whether every genotype observed across the
// samples of line is in set.
func (s *Stream) IsPartOfGenotypes(line string, set []string) bool {
	gts, ok := s.genotypes(line)
	if !ok {
		return false
	}
	for _, gt := range gts {
		if !slices.Contains(set, gt) {
			return false
		}
	}
	return true
}

// GetGenotype yields the remaining data lines where at least one sample's
// genotype is in set. A file without FORMAT or GT yields nothing.
func (s *Stream) GetGenotype(set []string) iter.Seq2[string, error] {
	return s.scanGenotypes(set, true)
}

// FilterGenotype yields the remaining data lines where no sample's genotype
// is in set. A file without FORMAT or GT yields nothing.
func (s *Stream) FilterGenotype(set []string) iter.Seq2[string, error] {
	return s.scanGenotypes(set, false)
}

// scanGenotypes stops at the first line whose genotype data is missing.
func (s *Stream) scanGenotypes(set []string, want bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if s.mode != Read {
			yield("", ErrNotOpen)
			return
		}
		if !slices.Contains(s.header, ColFormat) {
			return
		}

		for {
			line, err := s.ReadLine(true)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
			if _, ok := s.genotypes(line); !ok {
				return
			}
			if s.HasGenotype(line, set) == want && !yield(line, nil) {
				return
			}
		}
	}
}
