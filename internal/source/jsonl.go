package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Umiiii/CCTP-Analytics/internal/model"
)

// JSONLFeed replays pre-decoded burn events from a JSONL file, one event
// per line. It lets the pipeline run against captured batches without a
// live source-chain decoder.
type JSONLFeed struct {
	file    *os.File
	scanner *bufio.Scanner
	line    int
}

// OpenJSONLFeed opens a burn-event file.
func OpenJSONLFeed(path string) (*JSONLFeed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open burn events: %w", err)
	}

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	return &JSONLFeed{file: file, scanner: scanner}, nil
}

// Next yields the next burn event in the file. Blank lines are skipped; a
// malformed line is an error naming its number.
func (f *JSONLFeed) Next(ctx context.Context) (model.BurnEvent, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return model.BurnEvent{}, false, err
		}
		if !f.scanner.Scan() {
			if err := f.scanner.Err(); err != nil {
				return model.BurnEvent{}, false, fmt.Errorf("read burn events: %w", err)
			}
			return model.BurnEvent{}, false, nil
		}
		f.line++

		text := strings.TrimSpace(f.scanner.Text())
		if text == "" {
			continue
		}

		var event model.BurnEvent
		if err := json.Unmarshal([]byte(text), &event); err != nil {
			return model.BurnEvent{}, false, fmt.Errorf("parse burn event line %d: %w", f.line, err)
		}
		return event, true, nil
	}
}

// Close closes the underlying file.
func (f *JSONLFeed) Close() error {
	return f.file.Close()
}
