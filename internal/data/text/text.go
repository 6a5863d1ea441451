// Package text turns documents into fixed-length token-id batches that
// recurrent cells can consume, using OpenAI BPE vocabularies for
// tokenization.
package text

import (
	"errors"
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/random"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// ErrInvalidDataset is returned for bad dataset construction arguments.
var ErrInvalidDataset = errors.New("text: invalid dataset configuration")

// Tokenizer converts text to token ids.
type Tokenizer interface {
	Encode(text string) ([]int32, error)
	VocabSize() int
}

// Tiktoken adapts a pkoukk/tiktoken-go encoding to the Tokenizer interface.
type Tiktoken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTiktoken loads a named BPE encoding, e.g. "cl100k_base" (GPT-4) or
// "p50k_base" (GPT-3).
func NewTiktoken(encodingName string) (*Tiktoken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("text: loading encoding %q: %w", encodingName, err)
	}
	return &Tiktoken{encoding: encoding, name: encodingName}, nil
}

// Encode converts text to token ids.
func (t *Tiktoken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)
	out := make([]int32, len(tokens))
	for i, tok := range tokens {
		out[i] = int32(tok)
	}
	return out, nil
}

// VocabSize returns the vocabulary size of the encoding.
func (t *Tiktoken) VocabSize() int {
	switch t.name {
	case "cl100k_base":
		return 100256
	case "p50k_base", "r50k_base":
		return 50257
	default:
		return 100000
	}
}

// Name returns the encoding name.
func (t *Tiktoken) Name() string {
	return t.name
}

// Dataset yields keyed batches of tokenized documents, truncated or
// zero-padded to a fixed length.
type Dataset[B tensor.Backend] struct {
	tokens  [][]int32
	maxLen  int
	backend B
}

// Batch is one batch of tokenized documents. Inputs is [batch, maxLen],
// zero-padded; Index holds each document's unpadded token count, capped at
// maxLen.
type Batch[B tensor.Backend] struct {
	Inputs *tensor.Tensor[int32, B]
	Index  []int
}

// NewDataset tokenizes documents up front. Empty documents are kept; their
// rows are all padding with index zero.
func NewDataset[B tensor.Backend](docs []string, tok Tokenizer, maxLen int, b B) (*Dataset[B], error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: at least one document required", ErrInvalidDataset)
	}
	if tok == nil {
		return nil, fmt.Errorf("%w: tokenizer required", ErrInvalidDataset)
	}
	if maxLen <= 0 {
		return nil, fmt.Errorf("%w: max length must be positive, got %d", ErrInvalidDataset, maxLen)
	}

	tokens := make([][]int32, len(docs))
	for i, doc := range docs {
		ids, err := tok.Encode(doc)
		if err != nil {
			return nil, fmt.Errorf("text: tokenizing document %d: %w", i, err)
		}
		if len(ids) > maxLen {
			ids = ids[:maxLen]
		}
		tokens[i] = ids
	}

	return &Dataset[B]{tokens: tokens, maxLen: maxLen, backend: b}, nil
}

// Len returns the number of documents.
func (d *Dataset[B]) Len() int {
	return len(d.tokens)
}

// MaxLen returns the fixed sequence length of generated batches.
func (d *Dataset[B]) MaxLen() int {
	return d.maxLen
}

// Batch samples batchSize documents (with replacement) from the key and
// packs them into a fixed-length batch. The same key gives the same batch.
func (d *Dataset[B]) Batch(key random.Key, batchSize int) (*Batch[B], error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidDataset, batchSize)
	}

	r := key.Source()
	data := make([]int32, batchSize*d.maxLen)
	index := make([]int, batchSize)
	for i := 0; i < batchSize; i++ {
		doc := d.tokens[r.IntN(len(d.tokens))]
		copy(data[i*d.maxLen:(i+1)*d.maxLen], doc)
		index[i] = len(doc)
	}

	inputs, err := tensor.FromSlice(data, tensor.Shape{batchSize, d.maxLen}, d.backend)
	if err != nil {
		return nil, err
	}
	return &Batch[B]{Inputs: inputs, Index: index}, nil
}

// OneHot encodes a batch's token inputs as [batch, time, vocab] cell inputs.
// vocab is typically the tokenizer's VocabSize, or a smaller remapped
// vocabulary for toy experiments.
func OneHot[T tensor.Float, B tensor.Backend](batch *Batch[B], vocab int) *tensor.Tensor[T, B] {
	return tensor.OneHot[T](batch.Inputs, vocab, batch.Inputs.Backend())
}
