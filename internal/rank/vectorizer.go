package rank

import (
	"math"
	"sort"
	"strings"
)

// Vocabulary cap for the TF-IDF space. Large enough that it only bites on
// very big batches; keeps the per-request memory bounded.
const maxVocab = 40000

// Minimal English stop-word list. Matching on lowercased tokens.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "after", "again", "all", "am", "an", "and",
		"any", "are", "as", "at", "be", "because", "been", "before", "being",
		"below", "between", "both", "but", "by", "can", "did", "do", "does",
		"doing", "down", "during", "each", "few", "for", "from", "further",
		"had", "has", "have", "having", "he", "her", "here", "hers", "him",
		"his", "how", "if", "in", "into", "is", "it", "its", "just", "me",
		"more", "most", "my", "no", "nor", "not", "now", "of", "off", "on",
		"once", "only", "or", "other", "our", "ours", "out", "over", "own",
		"same", "she", "should", "so", "some", "such", "than", "that", "the",
		"their", "theirs", "them", "then", "there", "these", "they", "this",
		"those", "through", "to", "too", "under", "until", "up", "very",
		"was", "we", "were", "what", "when", "where", "which", "while",
		"who", "whom", "why", "will", "with", "you", "your", "yours",
	} {
		stopWords[w] = struct{}{}
	}
}

// tokenize lowercases and splits on non-alphanumeric runs, keeping tokens of
// at least two characters with stop-words removed.
func tokenize(s string) []string {
	s = strings.ToLower(s)
	var toks []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		t := s[start:end]
		start = -1
		if len(t) < 2 {
			return
		}
		if _, stop := stopWords[t]; stop {
			return
		}
		toks = append(toks, t)
	}
	for i, r := range s {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum && start < 0 {
			start = i
		} else if !alnum {
			flush(i)
		}
	}
	flush(len(s))
	return toks
}

// terms returns the unigram+bigram term sequence for a document. Bigrams are
// formed after stop-word removal, joined with a single space.
func terms(s string) []string {
	toks := tokenize(s)
	out := make([]string, 0, 2*len(toks))
	out = append(out, toks...)
	for i := 0; i+1 < len(toks); i++ {
		out = append(out, toks[i]+" "+toks[i+1])
	}
	return out
}

// sparseVec is an L2-normalized TF-IDF vector keyed by vocabulary index.
type sparseVec map[int]float64

type vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// fitVectorizer builds the vocabulary and smoothed IDF weights over the
// corpus: idf = ln((1+n)/(1+df)) + 1. When the corpus exceeds maxVocab
// distinct terms, the most frequent terms (ties broken alphabetically for
// determinism) are kept.
func fitVectorizer(docs [][]string) *vectorizer {
	df := make(map[string]int)
	total := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, t := range doc {
			total[t]++
			seen[t] = struct{}{}
		}
		for t := range seen {
			df[t]++
		}
	}

	kept := make([]string, 0, len(total))
	for t := range total {
		kept = append(kept, t)
	}
	if len(kept) > maxVocab {
		sort.Slice(kept, func(i, j int) bool {
			if total[kept[i]] != total[kept[j]] {
				return total[kept[i]] > total[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:maxVocab]
	}

	v := &vectorizer{vocab: make(map[string]int, len(kept))}
	v.idf = make([]float64, len(kept))
	n := float64(len(docs))
	for i, t := range kept {
		v.vocab[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return v
}

// transform maps a term sequence to its L2-normalized TF-IDF vector.
func (v *vectorizer) transform(doc []string) sparseVec {
	vec := make(sparseVec)
	for _, t := range doc {
		if i, ok := v.vocab[t]; ok {
			vec[i]++
		}
	}
	var norm float64
	for i := range vec {
		vec[i] *= v.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// cosine of two L2-normalized sparse vectors is their dot product.
func cosine(a, b sparseVec) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for i, av := range a {
		if bv, ok := b[i]; ok {
			dot += av * bv
		}
	}
	return dot
}

// CosineSimilarities fits a TF-IDF space over the query plus all docs and
// returns the similarity of each doc to the query, each in [0,1]. Empty
// texts vectorize to zero and score 0.
func CosineSimilarities(query string, docs []string) []float64 {
	corpus := make([][]string, 0, len(docs)+1)
	corpus = append(corpus, terms(query))
	for _, d := range docs {
		corpus = append(corpus, terms(d))
	}
	v := fitVectorizer(corpus)

	qv := v.transform(corpus[0])
	out := make([]float64, len(docs))
	for i := range docs {
		out[i] = cosine(qv, v.transform(corpus[i+1]))
	}
	return out
}
