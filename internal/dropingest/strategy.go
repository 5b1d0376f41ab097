package dropingest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// Source names the strategy that produced a candidate.
type Source string

const (
	SourceURIList      Source = "uri-list"
	SourceTreeExplorer Source = "tree-explorer"
	SourceResourceItem Source = "resource-item"
	SourcePlainText    Source = "plain-text"
	SourceGenericScan  Source = "generic-scan"
)

// Candidate is an unvalidated value that may be a file path. Raw is usually a
// string; structured representations may yield other JSON types, which the
// validator rejects as malformed.
type Candidate struct {
	Raw    any
	Source Source
}

// Strategy extracts candidates from one kind of representation. Extract must
// not mutate the payload. A non-nil error reports a representation that was
// present but unreadable; any candidates returned alongside it are still used.
type Strategy interface {
	Name() Source
	Extract(Payload) ([]Candidate, error)
}

// URIListStrategy reads the newline-delimited URI list.
type URIListStrategy struct{}

func (URIListStrategy) Name() Source { return SourceURIList }

func (URIListStrategy) Extract(p Payload) ([]Candidate, error) {
	var out []Candidate
	for _, line := range splitLines(p.Data(FormatURIList)) {
		out = append(out, Candidate{Raw: NormalizePath(line), Source: SourceURIList})
	}
	return out, nil
}

// TreeExplorerStrategy reads the JSON array produced by dragging explorer
// nodes.
type TreeExplorerStrategy struct{}

func (TreeExplorerStrategy) Name() Source { return SourceTreeExplorer }

func (TreeExplorerStrategy) Extract(p Payload) ([]Candidate, error) {
	raw := strings.TrimSpace(p.Data(FormatTreeExplorer))
	if raw == "" {
		return nil, nil
	}
	var elements []any
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FormatTreeExplorer, err)
	}
	var out []Candidate
	for _, element := range elements {
		if value, ok := extractElement(element); ok {
			out = append(out, Candidate{Raw: value, Source: SourceTreeExplorer})
		}
	}
	return out, nil
}

// ResourceItemStrategy reads single file or folder resource descriptors.
type ResourceItemStrategy struct{}

func (ResourceItemStrategy) Name() Source { return SourceResourceItem }

func (ResourceItemStrategy) Extract(p Payload) ([]Candidate, error) {
	var out []Candidate
	var errs []string
	for _, format := range []string{FormatTreeFile, FormatTreeFolder} {
		raw := strings.TrimSpace(p.Data(format))
		if raw == "" {
			continue
		}
		var element any
		if err := json.Unmarshal([]byte(raw), &element); err != nil {
			errs = append(errs, fmt.Sprintf("parse %s: %v", format, err))
			continue
		}
		if value, ok := extractElement(element); ok {
			out = append(out, Candidate{Raw: value, Source: SourceResourceItem})
		}
	}
	if len(errs) > 0 {
		return out, errors.New(strings.Join(errs, "; "))
	}
	return out, nil
}

// PlainTextStrategy keeps text lines that look like file paths.
type PlainTextStrategy struct{}

func (PlainTextStrategy) Name() Source { return SourcePlainText }

func (PlainTextStrategy) Extract(p Payload) ([]Candidate, error) {
	var out []Candidate
	for _, line := range splitLines(p.Data(FormatPlainText)) {
		if !containsSeparator(line) {
			continue
		}
		if strings.Contains(line, ".") || strings.HasSuffix(line, "/") || strings.HasSuffix(line, `\`) {
			out = append(out, Candidate{Raw: line, Source: SourcePlainText})
		}
	}
	return out, nil
}

var embeddedFileURI = regexp.MustCompile(`file://[^\s"'<>]+`)

// GenericScanStrategy searches every representation for embedded file URIs.
type GenericScanStrategy struct{}

func (GenericScanStrategy) Name() Source { return SourceGenericScan }

func (GenericScanStrategy) Extract(p Payload) ([]Candidate, error) {
	var out []Candidate
	for _, format := range p.Formats() {
		for _, match := range embeddedFileURI.FindAllString(p.Data(format), -1) {
			out = append(out, Candidate{Raw: NormalizePath(match), Source: SourceGenericScan})
		}
	}
	return out, nil
}

// extractElement pulls a path out of a decoded JSON element. Strings are
// taken as-is (normalized when they carry the file scheme). Objects are
// searched in priority order: uri (string), uri.fsPath, uri.path, path,
// fsPath. A field that is present but not a string is returned unchanged.
func extractElement(element any) (any, bool) {
	switch v := element.(type) {
	case string:
		return NormalizePath(v), true
	case map[string]any:
		return extractFromObject(v)
	default:
		return nil, false
	}
}

func extractFromObject(obj map[string]any) (any, bool) {
	if uri, ok := obj["uri"]; ok && uri != nil {
		switch u := uri.(type) {
		case string:
			return NormalizePath(u), true
		case map[string]any:
			if value, ok := lookup(u, "fsPath"); ok {
				return value, true
			}
			if value, ok := lookup(u, "path"); ok {
				return value, true
			}
		default:
			return u, true
		}
	}
	if value, ok := lookup(obj, "path"); ok {
		return value, true
	}
	if value, ok := lookup(obj, "fsPath"); ok {
		return value, true
	}
	return nil, false
}

func lookup(obj map[string]any, key string) (any, bool) {
	value, ok := obj[key]
	if !ok || value == nil {
		return nil, false
	}
	if s, ok := value.(string); ok {
		return NormalizePath(s), true
	}
	return value, true
}

func splitLines(data string) []string {
	if data == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(data, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func containsSeparator(s string) bool {
	return strings.ContainsAny(s, `/\`)
}
