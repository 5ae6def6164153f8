package svm

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// VectorizerSpec is the JSON export of a fitted TF-IDF vectorizer
type VectorizerSpec struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Lowercase    *bool          `json:"lowercase,omitempty"`
	NgramRange   []int          `json:"ngram_range,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Norm         *string        `json:"norm,omitempty"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	StopWords    []string       `json:"stop_words,omitempty"`
}

// SparseVector holds the non-zero weights of a term vector. Cols is
// sorted ascending so every sum over it runs in the same order.
type SparseVector struct {
	Cols    []int
	Weights []float64
}

// Len returns the number of non-zero columns
func (x SparseVector) Len() int {
	return len(x.Cols)
}

// At returns the weight of col, zero when absent
func (x SparseVector) At(col int) float64 {
	i := sort.SearchInts(x.Cols, col)
	if i < len(x.Cols) && x.Cols[i] == col {
		return x.Weights[i]
	}
	return 0
}

// Dot returns the inner product with a dense row
func (x SparseVector) Dot(row []float64) float64 {
	var s float64
	for i, col := range x.Cols {
		s += row[col] * x.Weights[i]
	}
	return s
}

// Vectorizer turns text into TF-IDF weighted term vectors
type Vectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	lowercase   bool
	minN, maxN  int
	sublinearTF bool
	norm        string
	pattern     *regexp.Regexp
	stopWords   map[string]struct{}
}

// NewVectorizer validates the exported parameters and builds a Vectorizer
func NewVectorizer(spec *VectorizerSpec) (*Vectorizer, error) {
	if len(spec.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer: empty vocabulary")
	}
	if len(spec.IDF) == 0 {
		return nil, fmt.Errorf("vectorizer: missing idf weights")
	}
	for term, col := range spec.Vocabulary {
		if col < 0 || col >= len(spec.IDF) {
			return nil, fmt.Errorf("vectorizer: term %q maps to column %d outside [0,%d)", term, col, len(spec.IDF))
		}
	}

	v := &Vectorizer{
		vocabulary:  spec.Vocabulary,
		idf:         spec.IDF,
		lowercase:   true,
		minN:        1,
		maxN:        1,
		sublinearTF: spec.SublinearTF,
		norm:        "l2",
	}

	if spec.Lowercase != nil {
		v.lowercase = *spec.Lowercase
	}

	if len(spec.NgramRange) > 0 {
		if len(spec.NgramRange) != 2 || spec.NgramRange[0] < 1 || spec.NgramRange[0] > spec.NgramRange[1] {
			return nil, fmt.Errorf("vectorizer: invalid ngram_range %v", spec.NgramRange)
		}
		v.minN, v.maxN = spec.NgramRange[0], spec.NgramRange[1]
	}

	if spec.Norm != nil {
		switch *spec.Norm {
		case "l1", "l2", "":
			v.norm = *spec.Norm
		default:
			return nil, fmt.Errorf("vectorizer: unsupported norm %q", *spec.Norm)
		}
	}

	if p := spec.TokenPattern; p != "" && p != defaultTokenPattern {
		// RE2 has no (?u) flag; its classes are matched rune-wise already.
		re, err := regexp.Compile(strings.Replace(p, "(?u)", "", 1))
		if err != nil {
			return nil, fmt.Errorf("vectorizer: invalid token_pattern: %w", err)
		}
		v.pattern = re
	}

	if len(spec.StopWords) > 0 {
		v.stopWords = make(map[string]struct{}, len(spec.StopWords))
		for _, w := range spec.StopWords {
			v.stopWords[w] = struct{}{}
		}
	}

	return v, nil
}

const defaultTokenPattern = `(?u)\b\w\w+\b`

// Features returns the number of feature columns
func (v *Vectorizer) Features() int {
	return len(v.idf)
}

// Transform returns the normalized TF-IDF vector of text. Terms outside
// the vocabulary are ignored.
func (v *Vectorizer) Transform(text string) SparseVector {
	if v.lowercase {
		text = strings.ToLower(text)
	}

	counts := make(map[int]float64)
	for _, term := range v.ngrams(v.tokenize(text)) {
		if col, ok := v.vocabulary[term]; ok {
			counts[col]++
		}
	}

	vec := SparseVector{
		Cols:    make([]int, 0, len(counts)),
		Weights: make([]float64, 0, len(counts)),
	}
	for col := range counts {
		vec.Cols = append(vec.Cols, col)
	}
	sort.Ints(vec.Cols)

	for _, col := range vec.Cols {
		tf := counts[col]
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		vec.Weights = append(vec.Weights, tf*v.idf[col])
	}

	normalize(vec, v.norm)
	return vec
}

func (v *Vectorizer) tokenize(text string) []string {
	var tokens []string
	if v.pattern != nil {
		tokens = v.pattern.FindAllString(text, -1)
	} else {
		tokens = wordTokens(text)
	}

	if v.stopWords == nil {
		return tokens
	}
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, stop := v.stopWords[tok]; !stop {
			kept = append(kept, tok)
		}
	}
	return kept
}

func (v *Vectorizer) ngrams(tokens []string) []string {
	if v.minN == 1 && v.maxN == 1 {
		return tokens
	}

	var out []string
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// wordTokens extracts runs of two or more word characters.
func wordTokens(text string) []string {
	var tokens []string
	start := -1
	runes := 0
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			tokens = append(tokens, text[start:end])
		}
		start, runes = -1, 0
	}

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func normalize(vec SparseVector, norm string) {
	var total float64
	switch norm {
	case "l2":
		for _, w := range vec.Weights {
			total += w * w
		}
		total = math.Sqrt(total)
	case "l1":
		for _, w := range vec.Weights {
			total += math.Abs(w)
		}
	default:
		return
	}

	if total == 0 {
		return
	}
	for i, w := range vec.Weights {
		vec.Weights[i] = w / total
	}
}
