package vcf

import (
	"strconv"
	"strings"
)

// Mandatory column names, in file order.
const (
	ColChrom  = "CHROM"
	ColPos    = "POS"
	ColID     = "ID"
	ColRef    = "REF"
	ColAlt    = "ALT"
	ColQual   = "QUAL"
	ColFilter = "FILTER"
	ColInfo   = "INFO"
	ColFormat = "FORMAT"
)

// mandatoryColumns is the number of fixed columns every data line carries.
const mandatoryColumns = 8

// Record is one parsed VCF data line. Records are built by ParseRecord or
// ParseLine and are read-only afterwards.
type Record struct {
	Chrom  string
	Pos    int // 1-based
	ID     string
	Ref    string
	Alt    string
	Qual   float64
	Filter []string

	// Info maps key to value. Flag keys map to "".
	Info map[string]string

	// Format lists the FORMAT keys in column order. Nil when the line has
	// no FORMAT column, no sample values, or no sample names were given.
	Format []string

	// SampleInfo maps sample name to FORMAT key to value. Nil whenever
	// Format is nil.
	SampleInfo map[string]map[string]string

	infoKeys []string // Info keys in input order
	samples  []string // SampleInfo keys in column order
}

// ParseRecord builds a Record from the tab-separated columns of a data line
// and the sample names of the active header. fields must hold at least the 8
// mandatory columns; a 9th is taken as FORMAT and the rest as sample values.
func ParseRecord(fields []string, sampleNames []string) (*Record, error) {
	if len(fields) < mandatoryColumns {
		return nil, &ParseError{
			Field: "columns",
			Value: strings.Join(fields, "\t"),
			Err:   errColumnCount(len(fields)),
		}
	}

	pos, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, &ParseError{Field: ColPos, Value: fields[1], Err: err}
	}
	qual, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return nil, &ParseError{Field: ColQual, Value: fields[5], Err: err}
	}

	rec := &Record{
		Chrom:  strings.TrimSpace(fields[0]),
		Pos:    pos,
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    fields[4],
		Qual:   qual,
		Filter: splitList(fields[6]),
	}
	rec.parseInfo(fields[7])

	var format string
	var values []string
	if len(fields) > mandatoryColumns {
		format = fields[mandatoryColumns]
		values = fields[mandatoryColumns+1:]
	}
	if format == "" || len(values) == 0 || len(sampleNames) == 0 {
		return rec, nil
	}
	if len(values) != len(sampleNames) {
		return nil, &ParseError{
			Field: "samples",
			Value: strings.Join(values, "\t"),
			Err:   errSampleCount(len(values), len(sampleNames)),
		}
	}

	keys := strings.Split(format, ":")
	info := make(map[string]map[string]string, len(sampleNames))
	for i, name := range sampleNames {
		parts := strings.Split(values[i], ":")
		if len(parts) > len(keys) {
			return nil, &ParseError{Field: ColFormat, Value: values[i], Err: errFormatCount(len(parts), len(keys))}
		}
		m := make(map[string]string, len(parts))
		for j, v := range parts {
			m[keys[j]] = v
		}
		info[name] = m
	}
	rec.Format = keys
	rec.SampleInfo = info
	rec.samples = append([]string(nil), sampleNames...)
	return rec, nil
}

// ParseLine tokenizes a data line and parses it against header, the active
// column names. Sample names are the header entries after FORMAT.
func ParseLine(line string, header []string) (*Record, error) {
	line = strings.TrimRight(line, "\r\n")
	return ParseRecord(strings.Split(line, "\t"), sampleNames(header))
}

// sampleNames returns the header entries following FORMAT, or nil.
func sampleNames(header []string) []string {
	for i, col := range header {
		if col == ColFormat {
			return header[i+1:]
		}
	}
	return nil
}

// splitList splits a ';' list, dropping one trailing empty token.
func splitList(s string) []string {
	s = strings.TrimSuffix(s, ";")
	return strings.Split(s, ";")
}

func (r *Record) parseInfo(s string) {
	tokens := splitList(s)
	r.Info = make(map[string]string, len(tokens))
	r.infoKeys = make([]string, 0, len(tokens))
	for _, tok := range tokens {
		key, value, _ := strings.Cut(tok, "=")
		key = strings.TrimSpace(key)
		if _, seen := r.Info[key]; !seen {
			r.infoKeys = append(r.infoKeys, key)
		}
		r.Info[key] = strings.TrimSpace(value)
	}
}

// FilterString joins Filter back into the FILTER column text.
func (r *Record) FilterString() string {
	return strings.Join(r.Filter, ";")
}

// InfoString serializes Info in input order. Flags are written bare.
func (r *Record) InfoString() string {
	var sb strings.Builder
	for i, key := range r.infoKeys {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(key)
		if v := r.Info[key]; v != "" {
			sb.WriteByte('=')
			sb.WriteString(v)
		}
	}
	return sb.String()
}

// Samples returns the sample names in column order, or nil when the record
// carries no per-sample data.
func (r *Record) Samples() []string {
	return r.samples
}

// String formats the record as a tab-separated data line without a
// trailing newline.
func (r *Record) String() string {
	cols := []string{
		r.Chrom,
		strconv.Itoa(r.Pos),
		r.ID,
		r.Ref,
		r.Alt,
		strconv.FormatFloat(r.Qual, 'g', -1, 64),
		r.FilterString(),
		r.InfoString(),
	}
	if r.Format != nil {
		cols = append(cols, strings.Join(r.Format, ":"))
		for _, name := range r.samples {
			vals := make([]string, 0, len(r.Format))
			for _, key := range r.Format {
				v, ok := r.SampleInfo[name][key]
				if !ok {
					break
				}
				vals = append(vals, v)
			}
			cols = append(cols, strings.Join(vals, ":"))
		}
	}
	return strings.Join(cols, "\t")
}

// ColumnCount returns how many of the record's ten attributes (the eight
// mandatory columns, the FORMAT keys and the sample map) are populated.
// A fully populated record with samples reports 10.
func (r *Record) ColumnCount() int {
	n := 0
	for _, set := range []bool{
		r.Chrom != "",
		r.Pos != 0,
		r.ID != "",
		r.Ref != "",
		r.Alt != "",
		r.Qual != 0,
		len(r.Filter) > 0,
		len(r.Info) > 0,
		len(r.Format) > 0,
		len(r.SampleInfo) > 0,
	} {
		if set {
			n++
		}
	}
	return n
}

// IsIndel reports whether REF and ALT differ in length.
func (r *Record) IsIndel() bool { return isIndel(r.Ref, r.Alt) }

// IsSNP reports whether REF and ALT are both a single base.
func (r *Record) IsSNP() bool { return isSNP(r.Ref, r.Alt) }

// IsMNP reports whether REF and ALT have equal length. Every SNP is also an
// MNP.
func (r *Record) IsMNP() bool { return isMNP(r.Ref, r.Alt) }
