// Package html2sl converts HTML documents into builder-style DSL text.
package html2sl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"html2sl/internal/config"
	"html2sl/internal/emitter"
	"html2sl/internal/html"
	"html2sl/internal/logger"
)

// ErrInvalidEncoding is returned for input that is not valid UTF-8
var ErrInvalidEncoding = errors.New("input is not valid UTF-8")

// ErrEmptyDocument is returned in strict mode when nothing was emitted
var ErrEmptyDocument = emitter.ErrEmptyDocument

// Converter is the HTML to DSL conversion engine
type Converter struct {
	config     config.Config
	htmlParser html.Parser
	emitter    *emitter.Emitter
}

// New creates a new converter with the given configuration
func New(cfg config.Config) *Converter {
	var opts []html.ParserOption
	if cfg.Selector != "" {
		opts = append(opts, html.WithSelector(cfg.Selector))
	}

	return &Converter{
		config:     cfg,
		htmlParser: html.NewParser(opts...),
		emitter: emitter.New(emitter.Options{
			Indent:         cfg.Indent(),
			Escapes:        emitter.EscapeTable(cfg.EscapePrefix, cfg.ReservedNames),
			EscapeLiterals: cfg.EscapeLiterals,
			Strict:         cfg.Strict,
		}),
	}
}

// NewWithDefaults creates a new converter with default configuration
func NewWithDefaults() *Converter {
	return New(config.Default())
}

// Config returns the configuration the converter was built with
func (c *Converter) Config() config.Config {
	return c.config
}

// Result contains the result of a conversion
type Result struct {
	DSL             string          // Converted text, without trailing newline
	ProcessingStats ProcessingStats // Processing statistics
}

// ProcessingStats contains metrics from one conversion
type ProcessingStats struct {
	InputBytes        int           // Size of the HTML input
	OutputBytes       int           // Size of the DSL output
	NodesParsed       int           // Nodes in the parsed document
	ElementsEmitted   int           // Elements written as tag() calls
	TextNodesEmitted  int           // Text nodes written as .child("...")
	CommentsDropped   int           // Comment nodes skipped
	BlankTextDropped  int           // Whitespace-only text nodes skipped
	UnresolvedSkipped int           // Node references that did not resolve
	LinesWritten      int           // Lines in the output
	ParseTime         time.Duration // Time spent parsing
	ProcessingTime    time.Duration // Total time
}

// Convert converts an HTML string
func (c *Converter) Convert(htmlContent string) (*Result, error) {
	if !utf8.ValidString(htmlContent) {
		return nil, ErrInvalidEncoding
	}

	start := time.Now()
	doc, err := c.htmlParser.Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	parsed := time.Now()

	out, stats, err := c.emitter.EmitWithStats(doc)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DSL: out,
		ProcessingStats: ProcessingStats{
			InputBytes:        len(htmlContent),
			OutputBytes:       len(out),
			NodesParsed:       doc.Len(),
			ElementsEmitted:   stats.ElementsEmitted,
			TextNodesEmitted:  stats.TextNodesEmitted,
			CommentsDropped:   stats.CommentsDropped,
			BlankTextDropped:  stats.BlankTextDropped,
			UnresolvedSkipped: stats.UnresolvedSkipped,
			LinesWritten:      stats.LinesWritten,
			ParseTime:         parsed.Sub(start),
			ProcessingTime:    time.Since(start),
		},
	}

	logger.Debug("converted document",
		"nodes", result.ProcessingStats.NodesParsed,
		"lines", result.ProcessingStats.LinesWritten,
		"parse_time", result.ProcessingStats.ParseTime,
		"total_time", result.ProcessingStats.ProcessingTime)
	if out == "" {
		logger.Warn("document produced no output", "nodes", result.ProcessingStats.NodesParsed)
	}

	return result, nil
}

// ConvertString is a convenience method returning only the DSL text
func (c *Converter) ConvertString(htmlContent string) (string, error) {
	result, err := c.Convert(htmlContent)
	if err != nil {
		return "", err
	}
	return result.DSL, nil
}

// ConvertFile reads and converts an HTML file
func (c *Converter) ConvertFile(filename string) (*Result, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", filename, err)
	}

	result, err := c.Convert(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return result, nil
}

// ConvertReader reads all of r and converts it
func (c *Converter) ConvertReader(r io.Reader) (*Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return c.Convert(string(content))
}
