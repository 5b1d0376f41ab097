package dropingest

import (
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"

	"queuepanel/internal/logging"
)

// Parser turns a drop payload into an ordered list of candidates.
//
// Primary strategies all run and their results are concatenated, since one
// drop often carries several encodings of the same files. Fallbacks run in
// order only while the candidate list is still empty. Duplicate string values
// keep their first occurrence.
type Parser struct {
	primary   []Strategy
	fallbacks []Strategy
	logger    *slog.Logger
}

// NewParser returns a parser with the standard strategy order.
func NewParser(logger *slog.Logger) *Parser {
	return NewParserWith(
		[]Strategy{URIListStrategy{}, TreeExplorerStrategy{}, ResourceItemStrategy{}},
		[]Strategy{PlainTextStrategy{}, GenericScanStrategy{}},
		logger,
	)
}

// NewParserWith builds a parser from explicit strategy lists.
func NewParserWith(primary, fallbacks []Strategy, logger *slog.Logger) *Parser {
	return &Parser{
		primary:   primary,
		fallbacks: fallbacks,
		logger:    logging.NewComponentLogger(logger, "drop-parser"),
	}
}

// Parse extracts candidates from payload. A payload with attached binary file
// entries is rejected with ErrPayloadRejected before any representation is
// read. An empty result with a nil error means nothing usable was found.
func (p *Parser) Parse(payload Payload) ([]Candidate, error) {
	if payload == nil {
		return nil, nil
	}
	if n := payload.FileCount(); n > 0 {
		return nil, fmt.Errorf("%w: %d attached file entries", ErrPayloadRejected, n)
	}

	var candidates []Candidate
	for _, strategy := range p.primary {
		candidates = append(candidates, p.run(strategy, payload)...)
	}
	for _, strategy := range p.fallbacks {
		if len(candidates) > 0 {
			break
		}
		candidates = p.run(strategy, payload)
	}
	return dedupeCandidates(candidates), nil
}

func (p *Parser) run(strategy Strategy, payload Payload) []Candidate {
	found, err := strategy.Extract(payload)
	if err != nil {
		p.logger.Debug("drop representation unreadable",
			logging.String("strategy", string(strategy.Name())),
			logging.Error(err),
		)
	}
	if len(found) > 0 {
		p.logger.Debug("strategy produced candidates",
			logging.String("strategy", string(strategy.Name())),
			logging.Int("count", len(found)),
		)
	}
	return found
}

func dedupeCandidates(candidates []Candidate) []Candidate {
	if len(candidates) == 0 {
		return nil
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if s, ok := c.Raw.(string); ok {
			if !seen.Add(s) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
