package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ScopusReader reads a headered Scopus export CSV where each row is
// (abstract, <ignored>, title, [4 label columns]) and produces Instances
// with title, abstract, and the 4-way subject-label vector.
type ScopusReader struct {
	tokenizer Tokenizer
	indexer   string
}

func NewScopusReader(cfg ReaderConfig) *ScopusReader {
	cfg = cfg.withDefaults()
	return &ScopusReader{tokenizer: cfg.Tokenizer, indexer: cfg.Indexer}
}

func (r *ScopusReader) Read(ctx context.Context, path string) iter.Seq2[*Instance, error] {
	return readCSVRows(path, "reading scopus papers", func(row []string) (*Instance, error) {
		if len(row) < 3 {
			return nil, fmt.Errorf("expected at least 3 columns (abstract, _, title), got %d", len(row))
		}
		abstract, title, labels := row[0], row[2], row[3:]
		return r.TextToInstance(title, abstract, labels)
	})
}

// TextToInstance builds an Instance from the raw title, abstract, and label
// columns. An empty labels slice yields the all-zero label vector.
func (r *ScopusReader) TextToInstance(title, abstract string, labels []string) (*Instance, error) {
	indicators, err := ParseSubjectIndicators(labels)
	if err != nil {
		return nil, err
	}
	return NewInstance(map[string]Field{
		TitleFieldName:    &TextField{Tokens: r.tokenizer.Tokenize(title), Indexer: r.indexer},
		AbstractFieldName: &TextField{Tokens: r.tokenizer.Tokenize(abstract), Indexer: r.indexer},
		LabelsFieldName:   indicators.Field(),
	}), nil
}

// ScopusAbstractReader is the abstract-only variant: rows are
// (abstract, <ignored>, <ignored>, title, [4 label columns]) and the produced
// Instance carries only abstract and labels.
//
// The title column is unpacked and then discarded, exactly as the reader this
// reproduces does. That discard looks like a copy-paste leftover upstream; it
// is reproduced rather than fixed so both readers accept the same files.
type ScopusAbstractReader struct {
	tokenizer Tokenizer
	indexer   string
}

func NewScopusAbstractReader(cfg ReaderConfig) *ScopusAbstractReader {
	cfg = cfg.withDefaults()
	return &ScopusAbstractReader{tokenizer: cfg.Tokenizer, indexer: cfg.Indexer}
}

func (r *ScopusAbstractReader) Read(ctx context.Context, path string) iter.Seq2[*Instance, error] {
	return readCSVRows(path, "reading scopus abstracts", func(row []string) (*Instance, error) {
		if len(row) < 4 {
			return nil, fmt.Errorf("expected at least 4 columns (abstract, _, _, title), got %d", len(row))
		}
		abstract, _, labels := row[0], row[3], row[4:]
		return r.TextToInstance(abstract, labels)
	})
}

func (r *ScopusAbstractReader) TextToInstance(abstract string, labels []string) (*Instance, error) {
	indicators, err := ParseSubjectIndicators(labels)
	if err != nil {
		return nil, err
	}
	return NewInstance(map[string]Field{
		AbstractFieldName: &TextField{Tokens: r.tokenizer.Tokenize(abstract), Indexer: r.indexer},
		LabelsFieldName:   indicators.Field(),
	}), nil
}

// readCSVRows opens a headered CSV file lazily on first pull, skips the
// header, and yields one Instance per remaining row. Progress is reported
// per row; it is observability only.
func readCSVRows(path, description string, rowToInstance func(row []string) (*Instance, error)) iter.Seq2[*Instance, error] {
	return func(yield func(*Instance, error) bool) {
		file, err := os.Open(path)
		if err != nil {
			yield(nil, fmt.Errorf("error opening dataset file: %w", err))
			return
		}
		defer file.Close()

		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1 // rows carry 0 or 4 label columns

		if _, err := reader.Read(); err != nil {
			if !errors.Is(err, io.EOF) {
				yield(nil, fmt.Errorf("error reading header row: %w", err))
			}
			return
		}

		bar := progressbar.Default(-1, description)
		defer bar.Finish() //nolint:errcheck

		for rowNum := 1; ; rowNum++ {
			row, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("error reading row %d: %w", rowNum, err))
				return
			}
			bar.Add(1) //nolint:errcheck

			instance, err := rowToInstance(row)
			if err != nil {
				yield(nil, fmt.Errorf("row %d: %w", rowNum, err))
				return
			}
			if !yield(instance, nil) {
				return
			}
		}
	}
}
