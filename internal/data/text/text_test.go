package text_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/backend/cpu"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/data/text"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/random"
	"github.com/Nicholas-Lee-Bateman-282787728/reverse-engineering-neural-networks/internal/tensor"
)

// wordTokenizer maps whitespace-separated words to ids in arrival order.
// Deterministic and offline, unlike the BPE encodings.
type wordTokenizer struct {
	ids map[string]int32
}

func newWordTokenizer() *wordTokenizer {
	return &wordTokenizer{ids: make(map[string]int32)}
}

func (w *wordTokenizer) Encode(s string) ([]int32, error) {
	var out []int32
	for _, word := range strings.Fields(s) {
		id, ok := w.ids[word]
		if !ok {
			id = int32(len(w.ids) + 1) // 0 is reserved for padding
			w.ids[word] = id
		}
		out = append(out, id)
	}
	return out, nil
}

func (w *wordTokenizer) VocabSize() int {
	return len(w.ids) + 1
}

var docs = []string{
	"the quick brown fox",
	"jumps over the lazy dog",
	"the end",
}

func TestDataset_BatchShape(t *testing.T) {
	backend := cpu.New()
	ds, err := text.NewDataset(docs, newWordTokenizer(), 6, backend)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, 6, ds.MaxLen())

	batch, err := ds.Batch(random.NewKey(1), 5)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{5, 6}, batch.Inputs.Shape())
	assert.Len(t, batch.Index, 5)
}

func TestDataset_TruncationAndPadding(t *testing.T) {
	backend := cpu.New()
	ds, err := text.NewDataset(docs, newWordTokenizer(), 3, backend)
	require.NoError(t, err)

	batch, err := ds.Batch(random.NewKey(2), 8)
	require.NoError(t, err)

	for i, length := range batch.Index {
		require.LessOrEqual(t, length, 3, "document longer than maxLen survived truncation")
		for tPos := length; tPos < 3; tPos++ {
			assert.Equal(t, int32(0), batch.Inputs.At(i, tPos), "padding not zero")
		}
		for tPos := 0; tPos < length; tPos++ {
			assert.NotEqual(t, int32(0), batch.Inputs.At(i, tPos), "token id collided with padding")
		}
	}
}

func TestDataset_Deterministic(t *testing.T) {
	backend := cpu.New()
	ds, err := text.NewDataset(docs, newWordTokenizer(), 4, backend)
	require.NoError(t, err)

	a, err := ds.Batch(random.NewKey(5), 6)
	require.NoError(t, err)
	b, err := ds.Batch(random.NewKey(5), 6)
	require.NoError(t, err)

	assert.Equal(t, a.Inputs.Data(), b.Inputs.Data())
	assert.Equal(t, a.Index, b.Index)
}

func TestDataset_OneHot(t *testing.T) {
	backend := cpu.New()
	tok := newWordTokenizer()
	ds, err := text.NewDataset(docs, tok, 4, backend)
	require.NoError(t, err)

	batch, err := ds.Batch(random.NewKey(3), 2)
	require.NoError(t, err)

	encoded := text.OneHot[float32](batch, tok.VocabSize())
	require.Equal(t, tensor.Shape{2, 4, tok.VocabSize()}, encoded.Shape())

	// Each position is a one-hot row (padding included: id 0 one-hot).
	for b := 0; b < 2; b++ {
		for tPos := 0; tPos < 4; tPos++ {
			var sum float32
			for v := 0; v < tok.VocabSize(); v++ {
				sum += encoded.At(b, tPos, v)
			}
			assert.Equal(t, float32(1), sum)
		}
	}
}

func TestNewDataset_Invalid(t *testing.T) {
	backend := cpu.New()

	_, err := text.NewDataset(nil, newWordTokenizer(), 4, backend)
	assert.ErrorIs(t, err, text.ErrInvalidDataset)

	_, err = text.NewDataset(docs, nil, 4, backend)
	assert.ErrorIs(t, err, text.ErrInvalidDataset)

	_, err = text.NewDataset(docs, newWordTokenizer(), 0, backend)
	assert.ErrorIs(t, err, text.ErrInvalidDataset)

	ds, err := text.NewDataset(docs, newWordTokenizer(), 4, backend)
	require.NoError(t, err)
	_, err = ds.Batch(random.NewKey(0), 0)
	assert.ErrorIs(t, err, text.ErrInvalidDataset)
}
