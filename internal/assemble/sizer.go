package assemble

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Sizer measures text against the context budget.
type Sizer interface {
	Size(text string) (int, error)
}

// CharSizer counts runes, not bytes, so multi-byte scripts are not
// penalized by the budget.
type CharSizer struct{}

func (CharSizer) Size(text string) (int, error) {
	return utf8.RuneCountInString(text), nil
}

// TokenSizer counts model tokens for budgets expressed in tokens.
type TokenSizer struct {
	enc *tiktoken.Tiktoken
}

func NewTokenSizer(encoding string) (*TokenSizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading token encoding %q: %w", encoding, err)
	}
	return &TokenSizer{enc: enc}, nil
}

func (s *TokenSizer) Size(text string) (int, error) {
	return len(s.enc.Encode(text, nil, nil)), nil
}
