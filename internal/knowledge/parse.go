package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xaenox/jarvis-bot/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a knowledge document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the document format from a file name or URL path.
// Anything that is not .yaml/.yml is treated as JSON.
func FormatFromPath(p string) Format {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type pairDoc struct {
	User string `json:"user" yaml:"user"`
	Bot  string `json:"bot" yaml:"bot"`
}

// Parse decodes a document of the form
//
//	{"<category>": {"conversations": [{"user": "...", "bot": "..."}]}}
//
// keeping categories in document order. Categories with an unexpected shape
// are skipped and logged; a document whose top level is not an object fails.
func Parse(r io.Reader, format Format, logger *zap.Logger) (*Base, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		categories []models.Category
		err        error
	)
	switch format {
	case FormatYAML:
		categories, err = parseYAML(r, logger)
	case FormatJSON, "":
		categories, err = parseJSON(r, logger)
	default:
		return nil, fmt.Errorf("unsupported knowledge format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return NewBase(categories), nil
}

// collector keeps first-seen category positions; a repeated name replaces the
// earlier conversations in place.
type collector struct {
	index      map[string]int
	categories []models.Category
}

func (c *collector) add(name string, pairs []models.ConversationPair) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[name]; ok {
		c.categories[i].Conversations = pairs
		return
	}
	c.index[name] = len(c.categories)
	c.categories = append(c.categories, models.Category{Name: name, Conversations: pairs})
}

func parseJSON(r io.Reader, logger *zap.Logger) ([]models.Category, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("error reading knowledge document: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("knowledge document must be a JSON object")
	}

	var c collector
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("error reading category name: %w", err)
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("error reading category %q: %w", name, err)
		}

		var doc struct {
			Conversations []json.RawMessage `json:"conversations"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil || doc.Conversations == nil {
			logger.Warn("Skipping category with unexpected shape", zap.String("category", name))
			continue
		}

		pairs := make([]models.ConversationPair, 0, len(doc.Conversations))
		for i, rawPair := range doc.Conversations {
			var p pairDoc
			if err := json.Unmarshal(rawPair, &p); err != nil {
				logger.Warn("Skipping malformed conversation",
					zap.String("category", name),
					zap.Int("index", i),
					zap.Error(err))
				continue
			}
			pairs = append(pairs, models.ConversationPair{User: p.User, Bot: p.Bot})
		}
		c.add(name, pairs)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("error reading end of knowledge document: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after knowledge document")
	}
	return c.categories, nil
}

func parseYAML(r io.Reader, logger *zap.Logger) ([]models.Category, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("error decoding knowledge document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("knowledge document must be a YAML mapping")
	}

	var c collector
	top := root.Content[0]
	for i := 0; i+1 < len(top.Content); i += 2 {
		name := top.Content[i].Value
		conversations := yamlConversations(top.Content[i+1])
		if conversations == nil {
			logger.Warn("Skipping category with unexpected shape", zap.String("category", name))
			continue
		}

		pairs := make([]models.ConversationPair, 0, len(conversations.Content))
		for j, item := range conversations.Content {
			var p pairDoc
			if err := item.Decode(&p); err != nil {
				logger.Warn("Skipping malformed conversation",
					zap.String("category", name),
					zap.Int("index", j),
					zap.Error(err))
				continue
			}
			pairs = append(pairs, models.ConversationPair{User: p.User, Bot: p.Bot})
		}
		c.add(name, pairs)
	}
	return c.categories, nil
}

func yamlConversations(n *yaml.Node) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "conversations" && n.Content[i+1].Kind == yaml.SequenceNode {
			return n.Content[i+1]
		}
	}
	return nil
}
