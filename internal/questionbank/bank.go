// Package questionbank serves interview questions from a static,
// embedded catalogue. Selection is deterministic: the same criteria and
// used list always yield the same question.
package questionbank

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var catalogYAML []byte

// Any matches every role or difficulty in a question set.
const Any = "any"

// generalType is the last-resort set used when nothing matches the type.
const generalType = "general"

// Criteria selects questions.
type Criteria struct {
	Role       string
	Type       string
	Difficulty string
}

// Question is a single bank entry.
type Question struct {
	Text string `json:"text"`
}

type questionSet struct {
	Role       string   `yaml:"role"`
	Type       string   `yaml:"type"`
	Difficulty string   `yaml:"difficulty"`
	Questions  []string `yaml:"questions"`
}

type catalog struct {
	Greeting string        `yaml:"greeting"`
	Closing  string        `yaml:"closing"`
	Sets     []questionSet `yaml:"sets"`
}

// Bank is an immutable question catalogue.
type Bank struct {
	greeting string
	closing  string
	sets     []questionSet
}

var defaultBank = mustLoad(catalogYAML)

// Default returns the embedded bank.
func Default() *Bank {
	return defaultBank
}

// Load parses a YAML catalogue.
func Load(data []byte) (*Bank, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if c.Greeting == "" || c.Closing == "" {
		return nil, fmt.Errorf("question bank: greeting and closing are required")
	}
	for i, s := range c.Sets {
		if s.Type == "" || len(s.Questions) == 0 {
			return nil, fmt.Errorf("question bank: set %d needs a type and questions", i)
		}
		c.Sets[i].Role = normalize(s.Role)
		c.Sets[i].Type = normalize(s.Type)
		c.Sets[i].Difficulty = normalize(s.Difficulty)
	}
	return &Bank{greeting: c.Greeting, closing: c.Closing, sets: c.Sets}, nil
}

func mustLoad(data []byte) *Bank {
	b, err := Load(data)
	if err != nil {
		panic(err)
	}
	return b
}

// Candidates returns every question eligible for c, most specific first,
// without duplicates.
func (b *Bank) Candidates(c Criteria) []Question {
	role, typ, diff := normalize(c.Role), normalize(c.Type), normalize(c.Difficulty)

	tiers := []func(s questionSet) bool{
		func(s questionSet) bool { return s.Type == typ && s.Difficulty == diff && roleMatches(s.Role, role) },
		func(s questionSet) bool { return s.Type == typ && s.Difficulty == diff && s.Role == Any },
		func(s questionSet) bool { return s.Type == typ && s.Difficulty == Any },
		func(s questionSet) bool { return s.Type == generalType },
	}

	var out []Question
	seen := map[string]bool{}
	for _, match := range tiers {
		for _, s := range b.sets {
			if !match(s) {
				continue
			}
			for _, q := range s.Questions {
				key := normalize(q)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, Question{Text: q})
			}
		}
	}
	return out
}

// NextQuestion returns the first candidate for c that is not in used.
// Comparison ignores case and surrounding whitespace. When every
// candidate has been used the closing question is returned.
func (b *Bank) NextQuestion(c Criteria, used []string) Question {
	usedSet := make(map[string]bool, len(used))
	for _, u := range used {
		usedSet[normalize(u)] = true
	}
	for _, q := range b.Candidates(c) {
		if !usedSet[normalize(q.Text)] {
			return q
		}
	}
	return Question{Text: b.closing}
}

// FirstQuestion returns the bank's first pick for c.
func (b *Bank) FirstQuestion(c Criteria) Question {
	return b.NextQuestion(c, nil)
}

// Greeting renders the opening line. An empty userName is addressed as
// "there"; empty criteria fields read as generic words.
func (b *Bank) Greeting(c Criteria, userName string) string {
	name := strings.TrimSpace(userName)
	if name == "" {
		name = "there"
	}
	r := strings.NewReplacer(
		"{name}", name,
		"{role}", orDefault(c.Role, "open"),
		"{type}", orDefault(c.Type, "general"),
		"{difficulty}", orDefault(c.Difficulty, "medium"),
	)
	return r.Replace(b.greeting)
}

// NextQuestion selects from the embedded bank.
func NextQuestion(c Criteria, used []string) Question {
	return defaultBank.NextQuestion(c, used)
}

// Greeting renders the embedded bank's greeting.
func Greeting(c Criteria, userName string) string {
	return defaultBank.Greeting(c, userName)
}

// roleMatches reports whether a set's role key applies to the requested
// role. Keys match as substrings so "backend" covers "Senior Backend Engineer".
func roleMatches(setRole, role string) bool {
	if setRole == Any || role == "" {
		return false
	}
	return strings.Contains(role, setRole)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
