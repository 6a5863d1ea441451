package synthetic

import (
	"errors"
	"fmt"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/random"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// ErrInvalidDataset is returned for bad dataset construction arguments.
var ErrInvalidDataset = errors.New("synthetic: invalid dataset configuration")

// Unordered generates sequences whose label depends only on token counts,
// never on token order. Each class symbol carries an integer score,
// symmetric around zero; a sequence's score is the sum of its tokens'
// scores up to the sequence's length.
type Unordered[B tensor.Backend] struct {
	numClasses int
	batchSize  int
	sampler    LengthSampler
	backend    B
}

// Batch is one batch of generated sequences.
//
// Inputs is [batch, maxLen] of class symbols, zero-padded past each
// sequence's length. Index holds the true per-sequence lengths. Labels
// encode the sign of each sequence's score: 0 negative, 1 zero, 2 positive.
type Batch[B tensor.Backend] struct {
	Inputs *tensor.Tensor[int32, B]
	Index  []int
	Labels []int32
}

// NewUnordered creates an unordered-class dataset.
func NewUnordered[B tensor.Backend](numClasses, batchSize int, sampler LengthSampler, b B) (*Unordered[B], error) {
	if numClasses <= 0 {
		return nil, fmt.Errorf("%w: num classes must be positive, got %d", ErrInvalidDataset, numClasses)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidDataset, batchSize)
	}
	if sampler == nil {
		return nil, fmt.Errorf("%w: length sampler required", ErrInvalidDataset)
	}
	if sampler.MaxLength() <= 0 {
		return nil, fmt.Errorf("%w: sampler max length must be positive, got %d", ErrInvalidDataset, sampler.MaxLength())
	}
	return &Unordered[B]{
		numClasses: numClasses,
		batchSize:  batchSize,
		sampler:    sampler,
		backend:    b,
	}, nil
}

// NumClasses returns the vocabulary size.
func (u *Unordered[B]) NumClasses() int {
	return u.numClasses
}

// Vocab maps each class symbol to its score. Scores are 2i - (numClasses-1),
// symmetric around zero for any class count.
func (u *Unordered[B]) Vocab() map[int32]int {
	vocab := make(map[int32]int, u.numClasses)
	for i := 0; i < u.numClasses; i++ {
		vocab[int32(i)] = u.scoreOf(int32(i))
	}
	return vocab
}

func (u *Unordered[B]) scoreOf(symbol int32) int {
	return 2*int(symbol) - (u.numClasses - 1)
}

// Score sums the scores of the first length tokens. Tokens past length do
// not contribute, so padding never affects a sequence's score.
func (u *Unordered[B]) Score(tokens []int32, length int) int {
	if length > len(tokens) {
		length = len(tokens)
	}
	total := 0
	for _, tok := range tokens[:length] {
		total += u.scoreOf(tok)
	}
	return total
}

// Batch generates one batch from the key. The same key gives the same batch.
func (u *Unordered[B]) Batch(key random.Key) (*Batch[B], error) {
	lenKey, tokKey := key.Split()
	lengths := u.sampler.Sample(lenKey, u.batchSize)

	maxLen := 0
	for _, l := range lengths {
		if l <= 0 {
			return nil, fmt.Errorf("%w: sampled length %d", ErrInvalidDataset, l)
		}
		if l > maxLen {
			maxLen = l
		}
	}

	r := tokKey.Source()
	data := make([]int32, u.batchSize*maxLen)
	labels := make([]int32, u.batchSize)
	for i := 0; i < u.batchSize; i++ {
		row := data[i*maxLen : (i+1)*maxLen]
		for t := 0; t < lengths[i]; t++ {
			row[t] = int32(r.IntN(u.numClasses))
		}
		labels[i] = signLabel(u.Score(row, lengths[i]))
	}

	inputs, err := tensor.FromSlice(data, tensor.Shape{u.batchSize, maxLen}, u.backend)
	if err != nil {
		return nil, err
	}
	return &Batch[B]{Inputs: inputs, Index: lengths, Labels: labels}, nil
}

// signLabel maps a score to its class: 0 negative, 1 zero, 2 positive.
func signLabel(score int) int32 {
	switch {
	case score < 0:
		return 0
	case score == 0:
		return 1
	default:
		return 2
	}
}

// OneHot encodes a batch's token inputs as [batch, time, vocab] cell inputs.
func OneHot[T tensor.Float, B tensor.Backend](batch *Batch[B], vocab int) *tensor.Tensor[T, B] {
	return tensor.OneHot[T](batch.Inputs, vocab, batch.Inputs.Backend())
}
