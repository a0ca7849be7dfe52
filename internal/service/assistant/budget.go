package assistant

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const budgetEncoding = "cl100k_base"

// Tokenizer turns text into tokens and back.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenizer struct {
	enc *tiktoken.Tiktoken
}

func (t tiktokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t tiktokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Budget caps how much of the stored summary is placed into prompts. A limit
// of zero or less leaves the summary untouched.
type Budget struct {
	limit int

	mu     sync.Mutex
	tok    Tokenizer
	newTok func() (Tokenizer, error)
}

func NewBudget(limit int) *Budget {
	return &Budget{
		limit: limit,
		newTok: func() (Tokenizer, error) {
			enc, err := tiktoken.GetEncoding(budgetEncoding)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s encoding: %w", budgetEncoding, err)
			}
			return tiktokenizer{enc: enc}, nil
		},
	}
}

// NewBudgetWithTokenizer is used when the caller already has a tokenizer.
func NewBudgetWithTokenizer(limit int, tok Tokenizer) *Budget {
	return &Budget{
		limit:  limit,
		newTok: func() (Tokenizer, error) { return tok, nil },
	}
}

func (b *Budget) Limit() int {
	return b.limit
}

// Apply keeps the most recent tokens of the summary, since newer facts sit at
// its end.
func (b *Budget) Apply(summary string) (string, error) {
	if b == nil || b.limit <= 0 || summary == "" {
		return summary, nil
	}

	tok, err := b.tokenizer()
	if err != nil {
		return summary, err
	}

	tokens := tok.Encode(summary)
	if len(tokens) <= b.limit {
		return summary, nil
	}
	return trimToRuneStart(tok.Decode(tokens[len(tokens)-b.limit:])), nil
}

// tokenizer loads the encoding on first use. A failed load is not cached, so
// the next turn tries again.
func (b *Budget) tokenizer() (Tokenizer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tok != nil {
		return b.tok, nil
	}
	tok, err := b.newTok()
	if err != nil {
		return nil, err
	}
	b.tok = tok
	return tok, nil
}

// trimToRuneStart drops a partial UTF-8 sequence left at the front when the
// cut falls inside a multi-byte character.
func trimToRuneStart(s string) string {
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r != utf8.RuneError || size != 1 {
			break
		}
		s = s[1:]
	}
	return s
}
