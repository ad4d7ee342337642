package insight

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Card is the supportive message shown for an emotion.
type Card struct {
	Emotion string   `yaml:"-" json:"emotion"`
	Icon    string   `yaml:"icon" json:"icon"`
	Message string   `yaml:"message" json:"message"`
	Tips    []string `yaml:"tips" json:"tips"`
	Color   string   `yaml:"color" json:"color"`
	Aliases []string `yaml:"aliases" json:"-"`
}

type ActivityGroup struct {
	Category string   `yaml:"category" json:"category"`
	Items    []string `yaml:"items" json:"items"`
}

type Resource struct {
	Name        string `yaml:"name" json:"name"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description"`
}

// Catalog holds the static wellness content: emotion cards, reflection
// prompts, self-care activities and external resources.
type Catalog struct {
	Fallback   string          `yaml:"fallback"`
	Cards      map[string]Card `yaml:"cards"`
	Prompts    []string        `yaml:"prompts"`
	Activities []ActivityGroup `yaml:"activities"`
	Resources  []Resource      `yaml:"resources"`

	alias map[string]string
}

// ParseCatalog decodes a YAML catalog and resolves aliases.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if _, ok := c.Cards[c.Fallback]; !ok {
		return nil, fmt.Errorf("catalog fallback card %q is not defined", c.Fallback)
	}

	c.alias = make(map[string]string)
	for name, card := range c.Cards {
		key := strings.ToLower(name)
		card.Emotion = key
		c.Cards[name] = card
		c.alias[key] = name
		for _, a := range card.Aliases {
			a = strings.ToLower(a)
			if prev, dup := c.alias[a]; dup && prev != name {
				return nil, fmt.Errorf("catalog alias %q maps to both %q and %q", a, prev, name)
			}
			c.alias[a] = name
		}
	}
	return &c, nil
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
})

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := defaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// Card returns the card for an emotion label, or the fallback card.
func (c *Catalog) Card(label string) Card {
	if name, ok := c.alias[strings.ToLower(strings.TrimSpace(label))]; ok {
		return c.Cards[name]
	}
	return c.Cards[c.Fallback]
}

// Color is the display color for label.
func (c *Catalog) Color(label string) string {
	return c.Card(label).Color
}

// Prompt picks a reflection prompt.
func (c *Catalog) Prompt(rng *rand.Rand) string {
	if len(c.Prompts) == 0 {
		return ""
	}
	return c.Prompts[rng.IntN(len(c.Prompts))]
}

// SuggestActivities picks one activity per category, then returns up to
// limit of those in random order.
func (c *Catalog) SuggestActivities(rng *rand.Rand, limit int) []string {
	picked := make([]string, 0, len(c.Activities))
	for _, g := range c.Activities {
		if len(g.Items) > 0 {
			picked = append(picked, g.Items[rng.IntN(len(g.Items))])
		}
	}
	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if limit >= 0 && len(picked) > limit {
		picked = picked[:limit]
	}
	return picked
}
