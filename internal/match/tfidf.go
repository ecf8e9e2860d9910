package match

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// maxVocabulary bounds the feature space of the bag-of-words encoding.
const maxVocabulary = 1000

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

// englishStopwords filters common function words before feature counting.
var englishStopwords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true,
	"all": true, "an": true, "and": true, "any": true, "are": true,
	"as": true, "at": true, "be": true, "been": true, "before": true,
	"being": true, "below": true, "between": true, "both": true, "but": true,
	"by": true, "can": true, "did": true, "do": true, "does": true,
	"down": true, "during": true, "each": true, "few": true, "for": true,
	"from": true, "further": true, "had": true, "has": true, "have": true,
	"he": true, "her": true, "here": true, "him": true, "his": true,
	"how": true, "i": true, "if": true, "in": true, "into": true,
	"is": true, "it": true, "its": true, "just": true, "more": true,
	"most": true, "no": true, "nor": true, "not": true, "now": true,
	"of": true, "off": true, "on": true, "once": true, "only": true,
	"or": true, "other": true, "our": true, "out": true, "over": true,
	"own": true, "same": true, "she": true, "so": true, "some": true,
	"such": true, "than": true, "that": true, "the": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "to": true, "too": true,
	"under": true, "until": true, "up": true, "very": true, "was": true,
	"we": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "who": true, "why": true, "will": true,
	"with": true, "you": true, "your": true,
}

// vectorizer builds TF-IDF vectors over unigrams and bigrams with a bounded
// vocabulary. Fresh state per call; nothing is cached between requests.
type vectorizer struct {
	maxFeatures int
}

func newVectorizer(maxFeatures int) *vectorizer {
	return &vectorizer{maxFeatures: maxFeatures}
}

// fitTransform builds the vocabulary from the documents and returns one
// L2-normalized sparse TF-IDF vector per document. IDF uses the smoothed
// form ln((1+n)/(1+df)) + 1 so terms present in every document still carry
// weight.
func (v *vectorizer) fitTransform(docs []string) []map[int]float64 {
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		tokenized[i] = ngrams(tokenize(doc))
	}

	// Document frequency and total count per feature.
	df := make(map[string]int)
	total := make(map[string]int)
	for _, tokens := range tokenized {
		seen := make(map[string]bool)
		for _, tok := range tokens {
			total[tok]++
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	// Bounded vocabulary: most frequent features first, alphabetical on
	// ties, so selection is deterministic.
	features := make([]string, 0, len(total))
	for feature := range total {
		features = append(features, feature)
	}
	sort.Slice(features, func(i, j int) bool {
		if total[features[i]] != total[features[j]] {
			return total[features[i]] > total[features[j]]
		}
		return features[i] < features[j]
	})
	if len(features) > v.maxFeatures {
		features = features[:v.maxFeatures]
	}
	vocab := make(map[string]int, len(features))
	for i, feature := range features {
		vocab[feature] = i
	}

	n := float64(len(docs))
	vectors := make([]map[int]float64, len(docs))
	for i, tokens := range tokenized {
		counts := make(map[int]float64)
		for _, tok := range tokens {
			if idx, ok := vocab[tok]; ok {
				counts[idx]++
			}
		}
		vec := make(map[int]float64, len(counts))
		for idx, count := range counts {
			feature := features[idx]
			idf := math.Log((1+n)/(1+float64(df[feature]))) + 1
			vec[idx] = count * idf
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors
}

// cosine returns the cosine similarity of two sparse vectors.
func cosine(a, b map[int]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot, normA, normB float64
	for idx, val := range a {
		normA += val * val
		if other, ok := b[idx]; ok {
			dot += val * other
		}
	}
	for _, val := range b {
		normB += val * val
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func tokenize(text string) []string {
	var tokens []string
	for _, tok := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if englishStopwords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// ngrams expands a token stream to unigrams plus bigrams.
func ngrams(tokens []string) []string {
	features := make([]string, 0, len(tokens)*2)
	features = append(features, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		features = append(features, tokens[i]+" "+tokens[i+1])
	}
	return features
}

func normalize(vec map[int]float64) {
	var norm float64
	for _, val := range vec {
		norm += val * val
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
}
