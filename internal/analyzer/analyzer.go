package analyzer

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/blake3"

	"github.com/mcncl/gotoon/internal/models"
	"github.com/mcncl/gotoon/toon"
)

// tokenPattern approximates an LLM tokenizer: words and single punctuation marks
var tokenPattern = regexp.MustCompile(`\w+|[^\s\w]`)

// Stats summarizes the shape of a document and compares the size of its
// JSON and TOON renderings.
type Stats struct {
	Source string
	Format models.Format

	Depth   int
	Objects int
	Arrays  int
	Leaves  int
	// ArrayKinds counts arrays by the encoding they receive
	ArrayKinds map[toon.ArrayKind]int
	// Nested is true when flattening would change the document
	Nested bool

	JSONBytes  int
	TOONBytes  int
	JSONTokens int
	TOONTokens int

	// Digest is the BLAKE3-256 hash of the TOON text, hex encoded
	Digest string
}

// Analyzer computes Stats for parsed documents
type Analyzer struct {
	opts toon.EncodeOptions
}

// NewAnalyzer creates a new Analyzer that encodes with default options.
func NewAnalyzer() *Analyzer {
	return &Analyzer{opts: toon.DefaultEncodeOptions()}
}

// NewAnalyzerWithOptions creates a new Analyzer with custom encoding options.
func NewAnalyzerWithOptions(opts toon.EncodeOptions) *Analyzer {
	return &Analyzer{opts: opts}
}

// Analyze walks the document and measures both renderings
func (a *Analyzer) Analyze(doc models.Document) (*Stats, error) {
	if doc.Root == nil {
		return nil, fmt.Errorf("document has no root value")
	}

	stats := &Stats{
		Source:     doc.Source,
		Format:     doc.Format,
		ArrayKinds: make(map[toon.ArrayKind]int),
		Nested:     toon.HasNesting(doc.Root),
	}
	stats.Depth = stats.walk(doc.Root)

	jsonText, err := doc.Root.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to render JSON: %w", err)
	}
	toonText, err := toon.EncodeWithOptions(doc.Root, &a.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode TOON: %w", err)
	}

	stats.JSONBytes = len(jsonText)
	stats.TOONBytes = len(toonText)
	stats.JSONTokens = EstimateTokens(string(jsonText))
	stats.TOONTokens = EstimateTokens(toonText)
	stats.Digest = Digest(toonText)

	return stats, nil
}

// walk counts nodes and returns the depth of v. Primitives have depth 0.
func (s *Stats) walk(v *toon.Value) int {
	switch v.Kind() {
	case toon.KindObject:
		s.Objects++
		obj, _ := v.AsObject()
		deepest := 0
		for _, f := range obj.Fields() {
			deepest = max(deepest, s.walk(f.Value))
		}
		return deepest + 1
	case toon.KindArray:
		s.Arrays++
		items, _ := v.AsArray()
		kind, _ := toon.ClassifyArray(items)
		s.ArrayKinds[kind]++
		deepest := 0
		for _, item := range items {
			deepest = max(deepest, s.walk(item))
		}
		return deepest + 1
	}
	s.Leaves++
	return 0
}

// EstimateTokens counts word runs and punctuation marks in text
func EstimateTokens(text string) int {
	return len(tokenPattern.FindAllStringIndex(text, -1))
}

// Digest returns the hex BLAKE3-256 hash of text
func Digest(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// TokenSavings is the share of JSON tokens saved by TOON, in percent
func (s *Stats) TokenSavings() float64 {
	if s.JSONTokens == 0 {
		return 0
	}
	return 100 * float64(s.JSONTokens-s.TOONTokens) / float64(s.JSONTokens)
}

// Report renders the stats as aligned "label: value" lines
func (s *Stats) Report() string {
	var b strings.Builder
	line := func(label, format string, args ...any) {
		fmt.Fprintf(&b, "%-14s %s\n", label+":", fmt.Sprintf(format, args...))
	}

	if s.Source != "" {
		line("source", "%s (%s)", s.Source, s.Format)
	}
	line("depth", "%d", s.Depth)
	line("values", "%s leaves, %s objects, %s arrays",
		humanize.Comma(int64(s.Leaves)), humanize.Comma(int64(s.Objects)), humanize.Comma(int64(s.Arrays)))
	if s.Arrays > 0 {
		var kinds []string
		for k := toon.ArrayEmpty; k <= toon.ArrayMixed; k++ {
			if n := s.ArrayKinds[k]; n > 0 {
				kinds = append(kinds, fmt.Sprintf("%s=%d", k, n))
			}
		}
		line("arrays", "%s", strings.Join(kinds, " "))
	}
	line("nested", "%t", s.Nested)
	line("json", "%s, %s tokens", humanize.Bytes(uint64(s.JSONBytes)), humanize.Comma(int64(s.JSONTokens)))
	line("toon", "%s, %s tokens", humanize.Bytes(uint64(s.TOONBytes)), humanize.Comma(int64(s.TOONTokens)))
	line("token savings", "%.1f%%", s.TokenSavings())
	line("blake3", "%s", s.Digest)
	return b.String()
}
