package seq

// Record is one FASTA entry.
type Record struct {
	Title       string // identifier: first token of the header
	Description string // rest of the header, may be empty
	Seq         Seq
}

// NewRecord returns a Record.
func NewRecord(title, description string, s Seq) Record {
	return Record{Title: title, Description: description, Seq: s}
}

// Header returns the header line contents without the leading '>'.
func (r Record) Header() string {
	if r.Description == "" {
		return r.Title
	}
	return r.Title + " " + r.Description
}

// Rename returns a copy of r with a new title.
func (r Record) Rename(title string) Record {
	r.Title = title
	return r
}
