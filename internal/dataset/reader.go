package dataset

import (
	"context"
	"fmt"
	"iter"
)

// Reader type tags recognized by the registry. Configuration refers to
// readers by these tags.
type ReaderType string

const (
	ScopusReaderType         ReaderType = "scopus"
	ScopusAbstractReaderType ReaderType = "scopus_abstract"
	SemanticScholarType      ReaderType = "s2_papers"
)

// Reader converts a raw record source into a lazy sequence of Instances.
// Iteration is pull-based: the caller drives it one record at a time and may
// simply stop pulling. Any record-level error terminates the sequence; no
// reader recovers from or retries its errors.
//
// The source argument is a file path for CSV readers. The Semantic Scholar
// reader owns its connection settings and ignores the argument, mirroring
// the upstream reader it reproduces.
type Reader interface {
	Read(ctx context.Context, source string) iter.Seq2[*Instance, error]
}

// ReaderConfig carries the construction parameters shared by all readers.
// Tokenizer and Indexer are delegated to the framework boundary without
// validation; Lazy controls whether drivers materialize the sequence up
// front or stream it.
type ReaderConfig struct {
	Lazy      bool
	Tokenizer Tokenizer
	Indexer   string

	// Mongo settings, used only by the Semantic Scholar reader.
	Mongo MongoConfig
}

func (cfg ReaderConfig) withDefaults() ReaderConfig {
	if cfg.Tokenizer == nil {
		cfg.Tokenizer = WordTokenizer{}
	}
	if cfg.Indexer == "" {
		cfg.Indexer = SingleIdIndexer
	}
	cfg.Mongo = cfg.Mongo.withDefaults()
	return cfg
}

// NewReader resolves a reader type tag to a constructed reader. This is the
// explicit factory counterpart to the framework's register-by-name plugin
// lookup: the full set of readers is known here at startup.
func NewReader(readerType ReaderType, cfg ReaderConfig) (Reader, error) {
	switch readerType {
	case ScopusReaderType:
		return NewScopusReader(cfg), nil
	case ScopusAbstractReaderType:
		return NewScopusAbstractReader(cfg), nil
	case SemanticScholarType:
		return NewSemanticScholarReader(cfg), nil
	default:
		return nil, fmt.Errorf("unknown reader type: %s", readerType)
	}
}

// ToReaderType validates a raw configuration tag.
func ToReaderType(typeString string) (ReaderType, error) {
	switch ReaderType(typeString) {
	case ScopusReaderType, ScopusAbstractReaderType, SemanticScholarType:
		return ReaderType(typeString), nil
	}
	return "", fmt.Errorf("unknown reader type: %s", typeString)
}

// ReadAll materializes a reader's sequence, stopping at the first error.
// Drivers use this when the reader was configured non-lazy.
func ReadAll(ctx context.Context, reader Reader, source string) ([]*Instance, error) {
	var instances []*Instance
	for inst, err := range reader.Read(ctx, source) {
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, nil
}
