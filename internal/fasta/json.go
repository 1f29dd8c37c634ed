package fasta

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/vertti/biokit/internal/compress"
	"github.com/vertti/biokit/internal/format"
	"github.com/vertti/biokit/internal/seq"
)

// jsonEntry is the value stored per title in the JSON side-channel.
type jsonEntry struct {
	Seq         string `json:"seq"`
	Description string `json:"description"`
}

// ExportJSON writes recs as a JSON object mapping title to
// {"seq": ..., "description": ...}. Titles must be unique.
func ExportJSON(w io.Writer, recs []seq.Record) error {
	out := make(map[string]jsonEntry, len(recs))
	for _, rec := range recs {
		if _, dup := out[rec.Title]; dup {
			return &DuplicateKeyError{Title: rec.Title}
		}
		out[rec.Title] = jsonEntry{Seq: rec.Seq.Data, Description: rec.Description}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(out), "encoding JSON")
}

// ImportJSON reads the format written by ExportJSON. Records are returned
// sorted by title and given sequence kind k.
func ImportJSON(r io.Reader, k seq.Kind) ([]seq.Record, error) {
	var in map[string]jsonEntry
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(err, "decoding JSON")
	}

	titles := make([]string, 0, len(in))
	for title := range in {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	recs := make([]seq.Record, 0, len(titles))
	for _, title := range titles {
		e := in[title]
		recs = append(recs, seq.NewRecord(title, e.Description, seq.New(k, e.Seq)))
	}
	return recs, nil
}

// SaveJSON exports recs to path, compressing when the extension asks for it
// (".gz" or ".zst").
func SaveJSON(path string, recs []seq.Record) (err error) {
	w, err := compress.Create(path, format.CodecFor(path))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	return ExportJSON(w, recs)
}

// LoadJSON imports records from path, detecting compression.
func LoadJSON(path string, k seq.Kind) ([]seq.Record, error) {
	r, err := format.OpenAny(path)
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck // read-only
	return ImportJSON(r, k)
}
