package dropingest

import "strings"

// Representation identifiers consulted while parsing a drop.
const (
	FormatURIList      = "text/uri-list"
	FormatTreeExplorer = "application/vnd.code.tree.explorer"
	FormatTreeFile     = "application/vnd.code.tree.file"
	FormatTreeFolder   = "application/vnd.code.tree.folder"
	FormatPlainText    = "text/plain"
)

// Payload exposes every representation attached to one drop.
type Payload interface {
	// Formats lists the available representation identifiers in host order.
	Formats() []string
	// Data returns the string form of a representation, or "" when absent.
	Data(format string) string
	// FileCount is the number of attached binary file entries.
	FileCount() int
}

// Representation is one format/data pair of a static payload.
type Representation struct {
	Format string `json:"format"`
	Data   string `json:"data"`
}

// StaticPayload is a Payload backed by plain values. Hosts decode drops into
// it from JSON.
type StaticPayload struct {
	Representations []Representation `json:"representations"`
	Files           int              `json:"files,omitempty"`
}

// NewPayload builds a StaticPayload from alternating format and data values.
// A trailing format without data is ignored.
func NewPayload(files int, pairs ...string) *StaticPayload {
	p := &StaticPayload{Files: files}
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Representations = append(p.Representations, Representation{Format: pairs[i], Data: pairs[i+1]})
	}
	return p
}

func (p *StaticPayload) Formats() []string {
	if p == nil {
		return nil
	}
	formats := make([]string, 0, len(p.Representations))
	for _, r := range p.Representations {
		formats = append(formats, r.Format)
	}
	return formats
}

func (p *StaticPayload) Data(format string) string {
	if p == nil {
		return ""
	}
	for _, r := range p.Representations {
		if strings.EqualFold(strings.TrimSpace(r.Format), format) {
			return r.Data
		}
	}
	return ""
}

func (p *StaticPayload) FileCount() int {
	if p == nil {
		return 0
	}
	return p.Files
}
