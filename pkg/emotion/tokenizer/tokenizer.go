// Package tokenizer implements BERT-style WordPiece tokenization for the
// emotion classifier. Token strings keep the caller's original casing so
// words can be shown back to the user, while ids are looked up on the
// normalised form the model was trained on.
package tokenizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxSeqLen is the DistilBERT position limit, [CLS] and [SEP] included.
	DefaultMaxSeqLen = 512

	maxWordRunes = 200
)

// Options controls normalisation and truncation.
type Options struct {
	Lowercase bool
	MaxSeqLen int
}

// DefaultOptions matches an uncased BERT checkpoint.
func DefaultOptions() Options {
	return Options{Lowercase: true, MaxSeqLen: DefaultMaxSeqLen}
}

// Tokenizer performs BasicTokenizer + WordPiece tokenization.
type Tokenizer struct {
	vocab *Vocab
	opts  Options
}

// New creates a tokenizer over an already loaded vocabulary.
func New(v *Vocab, opts Options) (*Tokenizer, error) {
	if v == nil {
		return nil, errors.New("tokenizer: nil vocabulary")
	}
	if opts.MaxSeqLen <= 0 {
		opts.MaxSeqLen = DefaultMaxSeqLen
	}
	if opts.MaxSeqLen < 3 {
		return nil, fmt.Errorf("tokenizer: max sequence length %d leaves no room for text", opts.MaxSeqLen)
	}
	return &Tokenizer{vocab: v, opts: opts}, nil
}

type hfTokenizerConfig struct {
	DoLowerCase    *bool `json:"do_lower_case"`
	ModelMaxLength int   `json:"model_max_length"`
}

// Load reads vocab.txt and, when present, tokenizer_config.json from a
// model directory. maxSeqLen > 0 overrides the model's own limit.
func Load(dir string, maxSeqLen int) (*Tokenizer, error) {
	v, err := LoadVocab(filepath.Join(dir, "vocab.txt"))
	if err != nil {
		return nil, err
	}

	opts := DefaultOptions()
	raw, err := os.ReadFile(filepath.Join(dir, "tokenizer_config.json"))
	switch {
	case err == nil:
		var cfg hfTokenizerConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("tokenizer: parse tokenizer_config.json: %w", err)
		}
		if cfg.DoLowerCase != nil {
			opts.Lowercase = *cfg.DoLowerCase
		}
		// HF writes a huge sentinel when the limit is unknown.
		if cfg.ModelMaxLength > 0 && cfg.ModelMaxLength <= 1<<16 {
			opts.MaxSeqLen = cfg.ModelMaxLength
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("tokenizer: read tokenizer_config.json: %w", err)
	}

	if maxSeqLen > 0 {
		opts.MaxSeqLen = maxSeqLen
	}
	return New(v, opts)
}

// Vocab exposes the underlying vocabulary.
func (t *Tokenizer) Vocab() *Vocab { return t.vocab }

// MaxSeqLen is the maximum encoding length including [CLS] and [SEP].
func (t *Tokenizer) MaxSeqLen() int { return t.opts.MaxSeqLen }

// Encode converts text into [CLS] tokens... [SEP]. Input that does not fit
// is truncated keeping the leading tokens, and Truncated is set.
func (t *Tokenizer) Encode(text string) Encoding {
	pieces := t.wordpiece(t.basicTokenize(text))

	truncated := false
	if limit := t.opts.MaxSeqLen - 2; len(pieces) > limit {
		pieces = pieces[:limit]
		truncated = true
	}

	n := len(pieces) + 2
	enc := Encoding{
		IDs:       make([]int64, 0, n),
		Tokens:    make([]string, 0, n),
		Special:   make([]bool, 0, n),
		Truncated: truncated,
	}
	enc.append(t.vocab.ClsID, ClsToken, true)
	for _, p := range pieces {
		enc.append(t.vocab.Lookup(p.norm), p.surface, false)
	}
	enc.append(t.vocab.SepID, SepToken, true)
	return enc
}

// Tokenize returns only the token strings of Encode, specials included.
func (t *Tokenizer) Tokenize(text string) []string {
	return t.Encode(text).Tokens
}

// piece is one token in two spellings: norm is what the vocabulary is
// queried with, surface is what the user typed.
type piece struct {
	norm    string
	surface string
}

// basicTokenize cleans the text, isolates CJK characters, splits on
// whitespace and punctuation, then normalises each piece.
func (t *Tokenizer) basicTokenize(text string) []piece {
	text = tokenizeChineseChars(cleanText(text))

	var out []piece
	for _, word := range strings.Fields(text) {
		for _, sub := range splitOnPunctuation(word) {
			n := sub
			if t.opts.Lowercase {
				n = stripAccents(strings.ToLower(sub))
			}
			if n == "" {
				continue
			}
			out = append(out, piece{norm: n, surface: sub})
		}
	}
	return out
}

func (t *Tokenizer) wordpiece(words []piece) []piece {
	var out []piece
	for _, w := range words {
		out = append(out, t.wordpieceWord(w)...)
	}
	return out
}

// wordpieceWord applies greedy longest-match-first WordPiece. When the
// normalised form has the same rune count as the surface form, the surface
// is sliced at the same boundaries; otherwise the normalised pieces are shown.
func (t *Tokenizer) wordpieceWord(w piece) []piece {
	runes := []rune(w.norm)
	if len(runes) > maxWordRunes {
		return []piece{{norm: UnkToken, surface: UnkToken}}
	}

	var surface []rune
	if utf8.RuneCountInString(w.surface) == len(runes) {
		surface = []rune(w.surface)
	}

	var out []piece
	start := 0
	for start < len(runes) {
		end := len(runes)
		found := ""
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if t.vocab.Contains(sub) {
				found = sub
				break
			}
			end--
		}
		if found == "" {
			return []piece{{norm: UnkToken, surface: UnkToken}}
		}

		shown := found
		if surface != nil {
			shown = string(surface[start:end])
			if start > 0 {
				shown = "##" + shown
			}
		}
		out = append(out, piece{norm: found, surface: shown})
		start = end
	}
	return out
}
