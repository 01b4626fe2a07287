// Package loader normalizes raw source files into the pipeline's JSONL
// record format.
package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"horse.fit/corpus/internal/corpusio"
)

// Stats summarizes one normalization run.
type Stats struct {
	Written int64
	Skipped int64
	// Reused is set when an existing output already satisfied the request
	// and the input was not read at all.
	Reused bool
}

// Loader converts a raw source file to normalized JSONL. The input format is
// picked by extension: .jsonl is re-normalized line by line, .json is read as
// an array or single object, anything else is treated as plain text with one
// document per line.
type Loader struct {
	inputPath string
}

func New(inputPath string) *Loader {
	return &Loader{inputPath: inputPath}
}

// Load writes up to maxExamples normalized records to outputPath. A zero or
// negative maxExamples means no limit. Load is idempotent: when outputPath
// already holds at least maxExamples records, the existing file is kept and
// the input is not re-read.
func (l *Loader) Load(outputPath string, maxExamples int64) (Stats, error) {
	if l == nil || l.inputPath == "" {
		return Stats{}, fmt.Errorf("input path is required")
	}

	if maxExamples > 0 {
		if existing, err := corpusio.CountLines(outputPath); err == nil && existing >= maxExamples {
			return Stats{Written: existing, Reused: true}, nil
		}
	}

	out, err := corpusio.CreateWriter(outputPath)
	if err != nil {
		return Stats{}, err
	}
	defer out.Close()

	var stats Stats
	emit := func(text string) (bool, error) {
		text = strings.TrimSpace(text)
		if text == "" {
			stats.Skipped++
			return true, nil
		}
		if err := out.Write(corpusio.Record{Text: text}); err != nil {
			return false, err
		}
		stats.Written++
		return maxExamples <= 0 || stats.Written < maxExamples, nil
	}

	switch strings.ToLower(filepath.Ext(l.inputPath)) {
	case ".jsonl":
		err = l.loadJSONL(emit, &stats)
	case ".json":
		err = l.loadJSON(emit)
	default:
		err = l.loadText(emit)
	}
	if err != nil {
		return stats, err
	}

	if err := out.Close(); err != nil {
		return stats, err
	}
	return stats, nil
}

type emitFunc func(text string) (more bool, err error)

func (l *Loader) loadJSONL(emit emitFunc, stats *Stats) error {
	file, err := os.Open(l.inputPath)
	if err != nil {
		return fmt.Errorf("open input %q: %w", l.inputPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			stats.Skipped++
			continue
		}
		more, err := emit(extractText(raw))
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input %q: %w", l.inputPath, err)
	}
	return nil
}

func (l *Loader) loadJSON(emit emitFunc) error {
	data, err := os.ReadFile(l.inputPath)
	if err != nil {
		return fmt.Errorf("read input %q: %w", l.inputPath, err)
	}

	var asList []map[string]any
	if err := json.Unmarshal(data, &asList); err == nil {
		for _, item := range asList {
			more, err := emit(extractText(item))
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
		return nil
	}

	var asObject map[string]any
	if err := json.Unmarshal(data, &asObject); err != nil {
		return fmt.Errorf("parse input %q: %w", l.inputPath, err)
	}
	_, err = emit(extractText(asObject))
	return err
}

func (l *Loader) loadText(emit emitFunc) error {
	file, err := os.Open(l.inputPath)
	if err != nil {
		return fmt.Errorf("open input %q: %w", l.inputPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		more, err := emit(scanner.Text())
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input %q: %w", l.inputPath, err)
	}
	return nil
}

// extractText pulls the document body from a decoded object, preferring the
// canonical "text" key and falling back to common alternatives.
func extractText(obj map[string]any) string {
	for _, key := range []string{"text", "content", "body"} {
		if v, ok := obj[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
