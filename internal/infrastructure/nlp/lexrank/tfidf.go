package lexrank

import (
	"maps"
	"math"
	"slices"

	"github.com/kirillkom/docdigest/internal/core/domain"
	"github.com/kirillkom/docdigest/internal/infrastructure/nlp/textutil"
)

// termWeight is one non-zero entry of a sparse sentence vector.
type termWeight struct {
	term   int
	weight float64
}

// vectorize builds L2-normalised TF-IDF vectors over the sentences themselves.
// Term ids follow first appearance and entries are sorted by id, which keeps
// every floating point sum in a fixed order.
func vectorize(sentences []domain.Sentence) ([][]termWeight, int) {
	vocab := make(map[string]int)
	counts := make([]map[int]int, len(sentences))
	for i, s := range sentences {
		counts[i] = make(map[int]int)
		for _, word := range textutil.ContentWords(s.Text) {
			id, ok := vocab[word]
			if !ok {
				id = len(vocab)
				vocab[word] = id
			}
			counts[i][id]++
		}
	}

	docFreq := make([]int, len(vocab))
	for _, tf := range counts {
		for id := range tf {
			docFreq[id]++
		}
	}

	n := float64(len(sentences))
	idf := make([]float64, len(vocab))
	for id, df := range docFreq {
		idf[id] = math.Log((1+n)/(1+float64(df))) + 1
	}

	vectors := make([][]termWeight, len(sentences))
	for i, tf := range counts {
		vec := make([]termWeight, 0, len(tf))
		for _, id := range slices.Sorted(maps.Keys(tf)) {
			vec = append(vec, termWeight{term: id, weight: float64(tf[id]) * idf[id]})
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors, len(vocab)
}

func normalize(vec []termWeight) {
	sum := 0.0
	for _, tw := range vec {
		sum += tw.weight * tw.weight
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i].weight /= norm
	}
}

// cosine of two normalised sparse vectors sorted by term id.
func cosine(a, b []termWeight) float64 {
	dot := 0.0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].term == b[j].term:
			dot += a[i].weight * b[j].weight
			i++
			j++
		case a[i].term < b[j].term:
			i++
		default:
			j++
		}
	}
	if dot < 0 {
		return 0
	}
	return dot
}
