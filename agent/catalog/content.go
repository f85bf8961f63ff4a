package catalog

import (
	"encoding/json"
	"math/rand"
	"os"

	"github.com/rs/zerolog/log"
)

// Concept is one teachable unit of the tutor content file.
type Concept struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	SampleQuestion string `json:"sample_question"`
}

// Content is the tutor's concept library.
type Content struct {
	concepts []Concept
}

func LoadContent(path string) *Content {
	c := &Content{}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("load tutor content")
		return c
	}
	if err := json.Unmarshal(raw, &c.concepts); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("parse tutor content")
		c.concepts = nil
	}
	return c
}

func (c *Content) Concept(id string) (Concept, bool) {
	for _, concept := range c.concepts {
		if concept.ID == id {
			return concept, true
		}
	}
	return Concept{}, false
}

func (c *Content) All() []Concept {
	return c.concepts
}

// Random picks a uniformly random concept, used to seed a learning
// session when the user has no preference.
func (c *Content) Random() (Concept, bool) {
	if len(c.concepts) == 0 {
		return Concept{}, false
	}
	return c.concepts[rand.Intn(len(c.concepts))], true
}
