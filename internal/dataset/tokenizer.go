package dataset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/daulet/tokenizers"
)

// SingleIdIndexer is the default token-indexing scheme name passed through to
// the training framework when a reader is constructed without one.
const SingleIdIndexer = "single_id"

// Tokenizer splits raw text into word tokens for a TextField. Tokenization
// algorithms are owned by the framework side; the implementations here only
// reproduce its default word splitting or bind to a pretrained tokenizer.
type Tokenizer interface {
	Tokenize(text string) []string
}

var (
	punctBeforeSpace = regexp.MustCompile(`([\pL\pN])([,\.\!\?;:"'\)\]\}])(\s|$)`)
	punctAfterSpace  = regexp.MustCompile(`(^|\s)(["'\(\[\{])([\pL\pN])`)
)

// WordTokenizer separates trailing and leading punctuation from words and
// splits on whitespace, matching the framework's default word splitter
// closely enough for vocabulary purposes.
type WordTokenizer struct{}

func (WordTokenizer) Tokenize(text string) []string {
	t := punctBeforeSpace.ReplaceAllString(text, "$1 $2$3")
	t = punctAfterSpace.ReplaceAllString(t, "$1$2 $3")
	return strings.Fields(t)
}

// PretrainedTokenizer wraps a HuggingFace tokenizer so readers can emit
// subword tokens instead of whitespace words. The token strings are what the
// framework sees; ID assignment still happens framework-side via the indexer.
type PretrainedTokenizer struct {
	tk *tokenizers.Tokenizer
}

// NewPretrainedTokenizer accepts either a HuggingFace model identifier or a
// path to a local tokenizer.json.
func NewPretrainedTokenizer(nameOrPath string) (*PretrainedTokenizer, error) {
	var (
		tk  *tokenizers.Tokenizer
		err error
	)
	if strings.HasSuffix(nameOrPath, ".json") {
		tk, err = tokenizers.FromFile(nameOrPath)
	} else {
		tk, err = tokenizers.FromPretrained(nameOrPath)
	}
	if err != nil {
		return nil, fmt.Errorf("tokenizer load: %w", err)
	}
	return &PretrainedTokenizer{tk: tk}, nil
}

func (t *PretrainedTokenizer) Tokenize(text string) []string {
	enc := t.tk.EncodeWithOptions(text, false, tokenizers.WithReturnTokens())
	return enc.Tokens
}

func (t *PretrainedTokenizer) Close() {
	t.tk.Close()
}
