package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Special token strings used by BERT-family vocabularies.
const (
	PadToken  = "[PAD]"
	UnkToken  = "[UNK]"
	ClsToken  = "[CLS]"
	SepToken  = "[SEP]"
	MaskToken = "[MASK]"
)

// Vocab is a WordPiece vocabulary. Token IDs are line numbers (0-indexed).
type Vocab struct {
	tokenToID map[string]int64
	idToToken []string

	PadID  int64
	UnkID  int64
	ClsID  int64
	SepID  int64
	MaskID int64
}

// LoadVocab reads a vocab.txt file where each line is a token.
func LoadVocab(path string) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: %w", err)
	}
	defer f.Close()

	var tokens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tokens = append(tokens, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocab: read error: %w", err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("vocab: file is empty: %s", path)
	}
	return NewVocab(tokens)
}

// NewVocab builds a vocabulary from an in-memory token list.
func NewVocab(tokens []string) (*Vocab, error) {
	v := &Vocab{
		tokenToID: make(map[string]int64, len(tokens)),
		idToToken: make([]string, len(tokens)),
	}
	for i, tok := range tokens {
		if _, dup := v.tokenToID[tok]; !dup {
			v.tokenToID[tok] = int64(i)
		}
		v.idToToken[i] = tok
	}

	specials := []struct {
		name string
		dest *int64
	}{
		{PadToken, &v.PadID},
		{UnkToken, &v.UnkID},
		{ClsToken, &v.ClsID},
		{SepToken, &v.SepID},
	}
	for _, s := range specials {
		id, ok := v.tokenToID[s.name]
		if !ok {
			return nil, fmt.Errorf("vocab: missing special token %s", s.name)
		}
		*s.dest = id
	}

	// Older vocabularies ship without [MASK]; perturbations fall back to [UNK].
	if id, ok := v.tokenToID[MaskToken]; ok {
		v.MaskID = id
	} else {
		v.MaskID = v.UnkID
	}
	return v, nil
}

// Lookup returns the token ID, or the [UNK] ID if the token is unknown.
func (v *Vocab) Lookup(token string) int64 {
	if id, ok := v.tokenToID[token]; ok {
		return id
	}
	return v.UnkID
}

// Contains reports whether the token is in the vocabulary.
func (v *Vocab) Contains(token string) bool {
	_, ok := v.tokenToID[token]
	return ok
}

// Token returns the vocabulary entry for id.
func (v *Vocab) Token(id int64) (string, bool) {
	if id < 0 || id >= int64(len(v.idToToken)) {
		return "", false
	}
	return v.idToToken[id], true
}

func (v *Vocab) Size() int {
	return len(v.idToToken)
}
