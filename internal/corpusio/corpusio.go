package corpusio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Record is the at-rest document shape: one JSON object per line with a
// required "text" field.
type Record struct {
	Text string `json:"text"`
}

// DroppedRecord carries a rejected document plus the stage and reason that
// rejected it, for the audit stream.
type DroppedRecord struct {
	Text      string   `json:"text"`
	Source    string   `json:"source,omitempty"`
	Stage     string   `json:"stage"`
	Reason    string   `json:"reason,omitempty"`
	RiskScore *float64 `json:"risk_score,omitempty"`
}

// Lines up to 4 MiB cover the longest documents the pipeline accepts.
const maxLineBytes = 4 * 1024 * 1024

// ReadStats counts lines a reader consumed and skipped.
type ReadStats struct {
	Lines     int64
	Malformed int64
	Empty     int64
}

// Reader streams records from a JSONL file, skipping malformed lines and
// records without text instead of failing the run.
type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
	stats   ReadStats
}

func OpenReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %q: %w", path, err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	return &Reader{file: file, scanner: scanner}, nil
}

// Next returns the next well-formed record. io.EOF signals the end of the
// stream; any other error is a read failure.
func (r *Reader) Next() (Record, error) {
	if r == nil || r.scanner == nil {
		return Record{}, io.EOF
	}

	for r.scanner.Scan() {
		r.stats.Lines++

		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			r.stats.Empty++
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			r.stats.Malformed++
			continue
		}
		if strings.TrimSpace(rec.Text) == "" {
			r.stats.Empty++
			continue
		}
		return rec, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("scan input: %w", err)
	}
	return Record{}, io.EOF
}

func (r *Reader) Stats() ReadStats {
	if r == nil {
		return ReadStats{}
	}
	return r.stats
}

func (r *Reader) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// Writer appends JSONL records to a file, creating parent directories as
// needed. Non-ASCII text is written verbatim.
type Writer struct {
	file    *os.File
	buffer  *bufio.Writer
	encoder *json.Encoder
	count   int64
}

func CreateWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %q: %w", path, err)
	}

	buffer := bufio.NewWriter(file)
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)

	return &Writer{file: file, buffer: buffer, encoder: encoder}, nil
}

func (w *Writer) Write(rec Record) error {
	if w == nil || w.encoder == nil {
		return fmt.Errorf("writer is not initialized")
	}
	if err := w.encoder.Encode(rec); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	w.count++
	return nil
}

func (w *Writer) WriteDropped(rec DroppedRecord) error {
	if w == nil || w.encoder == nil {
		return fmt.Errorf("writer is not initialized")
	}
	if err := w.encoder.Encode(rec); err != nil {
		return fmt.Errorf("encode dropped record: %w", err)
	}
	w.count++
	return nil
}

func (w *Writer) Count() int64 {
	if w == nil {
		return 0
	}
	return w.count
}

func (w *Writer) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	if w.buffer != nil {
		if err := w.buffer.Flush(); err != nil {
			_ = w.file.Close()
			return fmt.Errorf("flush output: %w", err)
		}
	}
	return w.file.Close()
}

// CountLines returns the number of non-empty lines in a file. Used by loaders
// to decide whether an existing output already satisfies a request.
func CountLines(path string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var count int64
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan %q: %w", path, err)
	}
	return count, nil
}
