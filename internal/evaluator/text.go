package evaluator

import (
	"strings"
	"unicode"
)

// tokenize lower-cases s and splits it into words. Apostrophes and inner
// hyphens stay attached ("don't", "real-time").
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}

// sentences splits s on terminal punctuation and newlines, dropping empties.
func sentences(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); len(tokenize(p)) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// contentWords drops stop words and very short tokens.
func contentWords(words []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, w := range words {
		if len(w) < 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// countPhrases counts occurrences of any of phrases in the lower-cased text.
func countPhrases(text string, phrases []string) int {
	lower := " " + strings.Join(tokenize(text), " ") + " "
	n := 0
	for _, p := range phrases {
		n += strings.Count(lower, " "+p+" ")
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true, "not": true,
	"you": true, "your": true, "with": true, "this": true, "that": true, "from": true,
	"have": true, "has": true, "was": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "who": true, "why": true, "how": true, "can": true,
	"could": true, "would": true, "should": true, "will": true, "about": true,
	"tell": true, "describe": true, "explain": true, "time": true, "did": true,
	"does": true, "there": true, "their": true, "them": true, "they": true,
	"into": true, "some": true, "any": true, "one": true, "its": true, "our": true,
	"give": true, "example": true, "walk": true, "through": true, "between": true,
}

var fillerPhrases = []string{"um", "uh", "like", "you know", "basically", "kind of", "sort of", "stuff", "things"}

var hedgePhrases = []string{
	"maybe", "perhaps", "i think", "i guess", "not sure", "probably", "i don't know",
	"i dont know", "might", "possibly", "i believe", "hopefully",
}

var assertivePhrases = []string{
	"i led", "i built", "i designed", "i implemented", "i decided", "i owned",
	"i would", "i will", "we shipped", "i delivered", "i measured", "i drove",
	"definitely", "clearly", "specifically",
}

var connectorPhrases = []string{
	"first", "second", "then", "next", "finally", "because", "therefore",
	"as a result", "for example", "for instance", "however", "in summary",
	"overall", "so that",
}

var starPhrases = []string{"situation", "task", "action", "result", "outcome", "impact", "learned"}

// technicalTerms is a broad engineering vocabulary. Answers that use more
// of it score higher on technical depth.
var technicalTerms = map[string]bool{
	"algorithm": true, "complexity": true, "latency": true, "throughput": true,
	"cache": true, "caching": true, "index": true, "indexes": true, "database": true,
	"transaction": true, "consistency": true, "availability": true, "partition": true,
	"sharding": true, "replication": true, "queue": true, "api": true, "rest": true,
	"grpc": true, "http": true, "tcp": true, "concurrency": true, "thread": true,
	"threads": true, "goroutine": true, "lock": true, "mutex": true, "deadlock": true,
	"race": true, "memory": true, "heap": true, "stack": true, "hash": true,
	"tree": true, "graph": true, "array": true, "recursion": true,
	"big-o": true, "scalability": true, "scale": true, "load": true,
	"balancer": true, "microservice": true, "microservices": true, "monolith": true,
	"kubernetes": true, "docker": true, "container": true, "deployment": true,
	"ci": true, "cd": true, "testing": true, "test": true, "tests": true,
	"unit": true, "integration": true, "monitoring": true, "metrics": true,
	"logging": true, "tracing": true, "security": true, "authentication": true,
	"authorization": true, "encryption": true, "schema": true, "sql": true,
	"nosql": true, "react": true, "state": true, "component": true, "render": true,
	"interface": true, "abstraction": true, "pattern": true, "refactor": true,
	"trade-off": true, "tradeoff": true, "tradeoffs": true, "benchmark": true,
	"profiling": true, "idempotent": true, "retry": true, "backoff": true,
	"timeout": true, "pipeline": true, "event": true, "stream": true, "batch": true,
}
