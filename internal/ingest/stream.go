// Package ingest reads the preprocessed article stream: newline-
// delimited JSON records produced by an upstream stemming/shingling
// pipeline. Decoding is stdlib encoding/json — a wire-format choice,
// not a concern any available library specializes in.
package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/progracyd/newsim/internal/model"
)

// Reader decodes one model.PreprocessedArticle per non-empty line.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps r. Lines are buffered generously since stemmed
// token bodies can be long.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	return &Reader{scanner: scanner}
}

// Next returns the next article, io.EOF when the stream is exhausted,
// or model.ErrMalformedRecord if a line fails to parse as JSON.
func (r *Reader) Next() (model.PreprocessedArticle, error) {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var a model.PreprocessedArticle
		if err := json.Unmarshal(line, &a); err != nil {
			return model.PreprocessedArticle{}, fmt.Errorf("%w: %v", model.ErrMalformedRecord, err)
		}
		return a, nil
	}
	if err := r.scanner.Err(); err != nil {
		return model.PreprocessedArticle{}, err
	}
	return model.PreprocessedArticle{}, io.EOF
}
