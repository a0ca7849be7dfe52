package assistant

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indexTokenizer treats each space-separated word as a token.
type indexTokenizer struct {
	words []string
}

func (t *indexTokenizer) Encode(text string) []int {
	t.words = strings.Fields(text)
	out := make([]int, len(t.words))
	for i := range t.words {
		out[i] = i
	}
	return out
}

func (t *indexTokenizer) Decode(tokens []int) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		parts = append(parts, t.words[tok])
	}
	return strings.Join(parts, " ")
}

func TestBudget_Unbounded(t *testing.T) {
	b := NewBudget(0)
	got, err := b.Apply("anything at all")
	require.NoError(t, err)
	assert.Equal(t, "anything at all", got)

	var nilBudget *Budget
	got, err = nilBudget.Apply("kept")
	require.NoError(t, err)
	assert.Equal(t, "kept", got)
}

func TestBudget_KeepsTail(t *testing.T) {
	b := NewBudgetWithTokenizer(3, &indexTokenizer{})

	got, err := b.Apply("one two three four five")
	require.NoError(t, err)
	assert.Equal(t, "three four five", got)

	got, err = b.Apply("short one")
	require.NoError(t, err)
	assert.Equal(t, "short one", got)
}

func TestBudget_TokenizerUnavailable(t *testing.T) {
	b := &Budget{
		limit:  1,
		newTok: func() (Tokenizer, error) { return nil, errors.New("offline") },
	}

	got, err := b.Apply("full summary")
	assert.Error(t, err)
	assert.Equal(t, "full summary", got)
}

func TestBudget_RetriesFailedLoad(t *testing.T) {
	calls := 0
	b := &Budget{
		limit: 2,
		newTok: func() (Tokenizer, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("offline")
			}
			return &indexTokenizer{}, nil
		},
	}

	got, err := b.Apply("one two three")
	assert.Error(t, err)
	assert.Equal(t, "one two three", got)

	got, err = b.Apply("one two three")
	require.NoError(t, err)
	assert.Equal(t, "two three", got)

	_, err = b.Apply("four five six")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

// byteTokenizer maps every byte to a token, so a cut can land inside a rune.
type byteTokenizer struct{}

func (byteTokenizer) Encode(text string) []int {
	out := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = int(text[i])
	}
	return out
}

func (byteTokenizer) Decode(tokens []int) string {
	buf := make([]byte, len(tokens))
	for i, tok := range tokens {
		buf[i] = byte(tok)
	}
	return string(buf)
}

func TestBudget_CutInsideMultibyteRune(t *testing.T) {
	// "€" is three bytes, so the last five bytes start with its final byte.
	b := NewBudgetWithTokenizer(5, byteTokenizer{})

	got, err := b.Apply("price €1234")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "1234", got)
}
