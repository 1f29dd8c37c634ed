package vcf

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Type is the declared value type of an INFO or FORMAT field.
type Type uint8

// Value types allowed in meta-information declarations.
const (
	Unknown Type = iota
	Integer
	Float
	Flag
	Character
	String
)

var typeNames = map[string]Type{
	"Integer":   Integer,
	"Float":     Float,
	"Flag":      Flag,
	"Character": Character,
	"String":    String,
}

func (t Type) String() string {
	switch t {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Flag:
		return "Flag"
	case Character:
		return "Character"
	case String:
		return "String"
	default:
		return "Unknown"
	}
}

// Meta is one parsed "##" meta-information line.
type Meta interface {
	// Field is the name before the first '=', e.g. "INFO" or "fileformat".
	Field() string
}

// FilterMeta is a ##FILTER=<ID=...,Description=...> declaration.
type FilterMeta struct {
	ID          string
	Description string
	Fields      map[string]string // every key, including ID and Description
}

// FormatMeta is a ##FORMAT=<...> declaration.
type FormatMeta struct {
	ID          string
	Number      string
	Type        Type
	Description string
	Fields      map[string]string

	// TypeWarning is set when the declared Type is outside the allowed set.
	// The declaration is kept; Type is Unknown.
	TypeWarning string
}

// InfoMeta is a ##INFO=<...> declaration. Unlike FORMAT, Flag is a valid
// Type here.
type InfoMeta struct {
	ID          string
	Number      string
	Type        Type
	Description string
	Fields      map[string]string
	TypeWarning string
}

// StructuredMeta is any other bracketed declaration, e.g. ##contig=<...>.
type StructuredMeta struct {
	Name   string
	Fields map[string]string
}

// ValueMeta is an unstructured line such as ##fileformat=VCFv4.2.
type ValueMeta struct {
	Name  string
	Value string
}

func (FilterMeta) Field() string       { return "FILTER" }
func (FormatMeta) Field() string       { return "FORMAT" }
func (InfoMeta) Field() string         { return "INFO" }
func (m StructuredMeta) Field() string { return m.Name }
func (m ValueMeta) Field() string      { return m.Name }

// MetaInfo groups declarations by field name. A field may repeat.
type MetaInfo map[string][]Meta

// Add appends m under its field name.
func (mi MetaInfo) Add(m Meta) {
	mi[m.Field()] = append(mi[m.Field()], m)
}

// ParseMetaLine parses a single "##field=contents" line.
func ParseMetaLine(line string) (Meta, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "##") {
		return nil, &ParseError{Field: "meta", Value: line, Err: errors.New("missing ## prefix")}
	}
	field, contents, ok := strings.Cut(line[2:], "=")
	if !ok || field == "" {
		return nil, &ParseError{Field: "meta", Value: line, Err: errors.New("expected field=contents")}
	}

	if !strings.HasPrefix(contents, "<") {
		return ValueMeta{Name: field, Value: contents}, nil
	}

	fields := splitDeclaration(contents)
	switch field {
	case "FILTER":
		return FilterMeta{ID: fields["ID"], Description: fields["Description"], Fields: fields}, nil
	case "FORMAT":
		t, warn := declaredType(field, fields, false)
		return FormatMeta{
			ID:          fields["ID"],
			Number:      fields["Number"],
			Type:        t,
			Description: fields["Description"],
			Fields:      fields,
			TypeWarning: warn,
		}, nil
	case "INFO":
		t, warn := declaredType(field, fields, true)
		return InfoMeta{
			ID:          fields["ID"],
			Number:      fields["Number"],
			Type:        t,
			Description: fields["Description"],
			Fields:      fields,
			TypeWarning: warn,
		}, nil
	default:
		return StructuredMeta{Name: field, Fields: fields}, nil
	}
}

// declaredType resolves the Type key. An unrecognised value is an advisory
// notice, never an error.
func declaredType(field string, fields map[string]string, allowFlag bool) (Type, string) {
	name := fields["Type"]
	t, ok := typeNames[name]
	if ok && (t != Flag || allowFlag) {
		return t, ""
	}

	warn := fmt.Sprintf("unrecognised Type %q", name)
	log.WithFields(log.Fields{
		"field": field,
		"id":    fields["ID"],
		"type":  name,
	}).Warn("meta-information declares an unrecognised Type")
	return Unknown, warn
}

// splitDeclaration parses "<K1=V1,K2=V2,...>" into a map. A segment with no
// '=' or one that falls inside an open quote continues the previous value,
// so free text such as Description="a, b" survives. Surrounding quotes are
// removed from values.
func splitDeclaration(contents string) map[string]string {
	body := strings.TrimPrefix(contents, "<")
	body = strings.TrimSuffix(body, ">")

	fields := make(map[string]string)
	var lastKey string
	var lastVal strings.Builder
	flush := func() {
		if lastKey != "" {
			fields[lastKey] = unquote(lastVal.String())
		}
	}

	for _, seg := range strings.Split(body, ",") {
		inQuote := strings.Count(lastVal.String(), `"`)%2 == 1
		key, value, hasEq := strings.Cut(seg, "=")
		if lastKey != "" && (inQuote || !hasEq) {
			lastVal.WriteByte(',')
			lastVal.WriteString(seg)
			continue
		}
		flush()
		lastKey = strings.TrimSpace(key)
		lastVal.Reset()
		lastVal.WriteString(value)
	}
	flush()
	return fields
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
