package vcf

import "strings"

func isIndel(ref, alt string) bool { return len(ref) != len(alt) }
func isSNP(ref, alt string) bool   { return len(ref) == 1 && len(alt) == 1 }
func isMNP(ref, alt string) bool   { return len(ref) == len(alt) }

// alleles extracts REF and ALT from a raw data line using the active
// header. ok is false when the line is too short.
func (s *Stream) alleles(line string) (ref, alt string, ok bool) {
	refIdx, altIdx := columnIndex(s.header, ColRef, 3), columnIndex(s.header, ColAlt, 4)
	cols := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if refIdx >= len(cols) || altIdx >= len(cols) {
		return "", "", false
	}
	return cols[refIdx], cols[altIdx], true
}

// columnIndex finds name in header, falling back to its fixed position.
func columnIndex(header []string, name string, fallback int) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return fallback
}

// IsIndel reports whether the line's REF and ALT differ in length.
func (s *Stream) IsIndel(line string) bool {
	ref, alt, ok := s.alleles(line)
	return ok && isIndel(ref, alt)
}

// IsSNP reports whether the line's REF and ALT are single bases.
func (s *Stream) IsSNP(line string) bool {
	ref, alt, ok := s.alleles(line)
	return ok && isSNP(ref, alt)
}

// IsMNP reports whether the line's REF and ALT have equal length, SNPs
// included.
func (s *Stream) IsMNP(line string) bool {
	ref, alt, ok := s.alleles(line)
	return ok && isMNP(ref, alt)
}
