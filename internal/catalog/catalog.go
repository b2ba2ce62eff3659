package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"brewpos/internal/model"
)

// Loader reads a catalogue file.
type Loader interface {
	// Load reads a gzipped JSON-lines catalogue file and returns its entries.
	Load(ctx context.Context, path string) (*Batch, error)
}

// Entry is one line of a catalogue file. Exactly one field is set.
type Entry struct {
	Category *model.Category `json:"category,omitempty"`
	Product  *model.Product  `json:"product,omitempty"`
}

// Batch holds the entries read from one file, in file order.
type Batch struct {
	Source     string
	Categories []model.Category
	Products   []model.Product
}

// Size returns the number of entries in the batch.
func (b *Batch) Size() int {
	return len(b.Categories) + len(b.Products)
}

// checkEvery is how many lines are decoded between context checks.
const checkEvery = 1000

// decode reads gzip-compressed JSON lines from r. Blank lines are skipped.
func decode(ctx context.Context, r io.Reader, source string) (*Batch, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gz.Close()

	batch := &Batch{Source: source}

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", source, lineNo, err)
		}

		switch {
		case entry.Category != nil && entry.Product == nil:
			batch.Categories = append(batch.Categories, *entry.Category)
		case entry.Product != nil && entry.Category == nil:
			batch.Products = append(batch.Products, *entry.Product)
		default:
			return nil, fmt.Errorf("%s line %d: expected exactly one of category or product", source, lineNo)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalogue %s: %w", source, err)
	}

	return batch, nil
}
