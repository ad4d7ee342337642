package emotion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// LabelSet is the model's ordered index <-> name mapping. It is immutable
// once built; names are stored lowercased.
type LabelSet struct {
	names []string
	index map[string]int
}

// NewLabelSet builds a label set from names in index order. Empty or
// duplicate names are rejected so the mapping stays bijective.
func NewLabelSet(names []string) (*LabelSet, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("label set is empty")
	}
	ls := &LabelSet{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		n = normalizeLabel(n)
		if n == "" {
			return nil, fmt.Errorf("label %d has no name", i)
		}
		if prev, dup := ls.index[n]; dup {
			return nil, fmt.Errorf("label %q appears at index %d and %d", n, prev, i)
		}
		ls.names[i] = n
		ls.index[n] = i
	}
	return ls, nil
}

// MustLabelSet is NewLabelSet for static label lists.
func MustLabelSet(names ...string) *LabelSet {
	ls, err := NewLabelSet(names)
	if err != nil {
		panic(err)
	}
	return ls
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (ls *LabelSet) Len() int { return len(ls.names) }

// Name returns the label at index i.
func (ls *LabelSet) Name(i int) (string, bool) {
	if i < 0 || i >= len(ls.names) {
		return "", false
	}
	return ls.names[i], true
}

// Index looks a label up case-insensitively.
func (ls *LabelSet) Index(name string) (int, bool) {
	i, ok := ls.index[normalizeLabel(name)]
	return i, ok
}

// Names returns a copy of the labels in index order.
func (ls *LabelSet) Names() []string {
	return append([]string(nil), ls.names...)
}

type hfModelConfig struct {
	ID2Label map[string]string `json:"id2label"`
	Label2ID map[string]int    `json:"label2id"`
}

// LoadLabelSet reads id2label (or label2id) from a HuggingFace config.json.
func LoadLabelSet(configPath string) (*LabelSet, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(configPath), err)
	}
	var cfg hfModelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(configPath), err)
	}

	var names []string
	switch {
	case len(cfg.ID2Label) > 0:
		names, err = labelsFromIDMap(cfg.ID2Label)
	case len(cfg.Label2ID) > 0:
		names, err = labelsFromLabel2ID(cfg.Label2ID)
	default:
		err = fmt.Errorf("%s has neither id2label nor label2id", filepath.Base(configPath))
	}
	if err != nil {
		return nil, err
	}
	return NewLabelSet(names)
}

// labelsFromIDMap turns {"0": "sadness", ...} into an index-ordered slice.
// Ids must be dense, starting at zero.
func labelsFromIDMap(id2label map[string]string) ([]string, error) {
	names := make([]string, len(id2label))
	for k, v := range id2label {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("id2label key %q is not an integer", k)
		}
		if id < 0 || id >= len(names) {
			return nil, fmt.Errorf("id2label id %d out of range [0,%d)", id, len(names))
		}
		names[id] = v
	}
	return names, nil
}

func labelsFromLabel2ID(label2id map[string]int) ([]string, error) {
	type entry struct {
		id    int
		label string
	}
	entries := make([]entry, 0, len(label2id))
	for lbl, id := range label2id {
		entries = append(entries, entry{id: id, label: lbl})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	names := make([]string, len(entries))
	for i, e := range entries {
		if e.id != i {
			return nil, fmt.Errorf("label2id ids are not dense at %d", i)
		}
		names[i] = e.label
	}
	return names, nil
}
