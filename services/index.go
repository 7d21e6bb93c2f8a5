package services

import (
	"math"
	"regexp"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"medichat/models"
)

// tokenRegex entspricht dem sklearn-Tokenmuster \b\w\w+\b: Wörter ab zwei
// Zeichen; nach der Normalisierung ist der Text ohnehin ASCII.
var tokenRegex = regexp.MustCompile(`\b\w\w+\b`)

// matchThreshold filtert Treffer mit zu geringer Ähnlichkeit aus.
const matchThreshold = 0.1

// SymptomMatch ist ein Symptom-Treffer mit Cosine-Ähnlichkeit zur Query.
type SymptomMatch struct {
	Symptom models.Symptom
	Score   float64
}

// DiseaseMatch ist ein Krankheits-Treffer mit Cosine-Ähnlichkeit zur Query.
type DiseaseMatch struct {
	Disease models.Disease
	Score   float64
}

// SimilarityIndex hält TF-IDF-Vektorräume über Symptome und Krankheiten.
// Rebuild erzeugt einen neuen unveränderlichen Schnappschuss und tauscht ihn
// atomar aus; Queries während eines Rebuilds lesen den alten Stand.
type SimilarityIndex struct {
	normalizer *TextNormalizer
	logger     *zap.Logger
	snapshot   atomic.Pointer[indexSnapshot]
}

type indexSnapshot struct {
	symptoms     []models.Symptom
	symptomSpace *vectorSpace
	diseases     []models.Disease
	diseaseSpace *vectorSpace
}

// NewSimilarityIndex erstellt einen leeren Index; ohne Rebuild liefert jede
// Query eine leere Trefferliste.
func NewSimilarityIndex(normalizer *TextNormalizer, logger *zap.Logger) *SimilarityIndex {
	return &SimilarityIndex{normalizer: normalizer, logger: logger}
}

// Rebuild vektorisiert beide Korpora neu und tauscht den Schnappschuss aus.
// Krankheitstexte enthalten zusätzlich die Namen der verknüpften Symptome.
func (idx *SimilarityIndex) Rebuild(symptoms []models.Symptom, diseases []models.Disease) {
	snap := &indexSnapshot{symptoms: symptoms, diseases: diseases}

	symptomTexts := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		symptomTexts = append(symptomTexts, idx.normalizer.Normalize(s.Name+" "+s.Description))
	}
	snap.symptomSpace = fitVectorSpace(symptomTexts)

	diseaseTexts := make([]string, 0, len(diseases))
	for _, d := range diseases {
		text := d.Name + " " + d.Description
		for _, s := range d.Symptoms {
			text += " " + s.Name
		}
		diseaseTexts = append(diseaseTexts, idx.normalizer.Normalize(text))
	}
	snap.diseaseSpace = fitVectorSpace(diseaseTexts)

	idx.snapshot.Store(snap)
	idx.logger.Info("Similarity-Index neu aufgebaut",
		zap.Int("symptoms", len(symptoms)),
		zap.Int("diseases", len(diseases)))
}

// MatchSymptoms liefert die topN ähnlichsten Symptome mit Score > 0.1,
// absteigend sortiert. Leerer Korpus oder leere Query ergeben keine Treffer.
func (idx *SimilarityIndex) MatchSymptoms(query string, topN int) []SymptomMatch {
	snap := idx.snapshot.Load()
	if snap == nil || len(snap.symptoms) == 0 {
		return nil
	}
	var matches []SymptomMatch
	for _, hit := range snap.symptomSpace.match(idx.normalizer.Normalize(query), topN) {
		matches = append(matches, SymptomMatch{Symptom: snap.symptoms[hit.doc], Score: hit.score})
	}
	return matches
}

// MatchDiseases liefert die topN ähnlichsten Krankheiten mit Score > 0.1.
func (idx *SimilarityIndex) MatchDiseases(query string, topN int) []DiseaseMatch {
	snap := idx.snapshot.Load()
	if snap == nil || len(snap.diseases) == 0 {
		return nil
	}
	var matches []DiseaseMatch
	for _, hit := range snap.diseaseSpace.match(idx.normalizer.Normalize(query), topN) {
		matches = append(matches, DiseaseMatch{Disease: snap.diseases[hit.doc], Score: hit.score})
	}
	return matches
}

// vectorSpace ist ein gefitteter TF-IDF-Raum: Vokabular, IDF-Gewichte und die
// L2-normalisierten Dokumentvektoren (sparse).
type vectorSpace struct {
	vocab map[string]int
	idf   []float64
	docs  []map[int]float64
}

type hit struct {
	doc   int
	score float64
}

// fitVectorSpace fittet Vokabular und IDF über den Korpus und vektorisiert
// jedes Dokument. IDF geglättet: ln((1+n)/(1+df)) + 1.
func fitVectorSpace(texts []string) *vectorSpace {
	space := &vectorSpace{vocab: make(map[string]int)}

	tokenized := make([][]string, len(texts))
	df := []int{}
	for i, text := range texts {
		tokens := tokenRegex.FindAllString(text, -1)
		tokenized[i] = tokens

		seen := map[string]bool{}
		for _, tok := range tokens {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			id, ok := space.vocab[tok]
			if !ok {
				id = len(space.idf)
				space.vocab[tok] = id
				space.idf = append(space.idf, 0)
				df = append(df, 0)
			}
			df[id]++
		}
	}

	n := float64(len(texts))
	for id, count := range df {
		space.idf[id] = math.Log((1+n)/(1+float64(count))) + 1
	}

	space.docs = make([]map[int]float64, len(texts))
	for i, tokens := range tokenized {
		space.docs[i] = space.vectorize(tokens)
	}
	return space
}

// vectorize gewichtet rohe Termfrequenzen mit IDF und normalisiert auf L2=1.
func (v *vectorSpace) vectorize(tokens []string) map[int]float64 {
	vec := map[int]float64{}
	for _, tok := range tokens {
		if id, ok := v.vocab[tok]; ok {
			vec[id]++
		}
	}
	var sum float64
	for id := range vec {
		vec[id] *= v.idf[id]
		sum += vec[id] * vec[id]
	}
	if sum > 0 {
		length := math.Sqrt(sum)
		for id := range vec {
			vec[id] /= length
		}
	}
	return vec
}

// match projiziert die normalisierte Query in den Raum und liefert die topN
// Dokumente mit Cosine-Ähnlichkeit über der Schwelle, absteigend sortiert.
func (v *vectorSpace) match(normalizedQuery string, topN int) []hit {
	queryVec := v.vectorize(tokenRegex.FindAllString(normalizedQuery, -1))
	if len(queryVec) == 0 {
		return nil
	}

	hits := make([]hit, 0, len(v.docs))
	for i, doc := range v.docs {
		hits = append(hits, hit{doc: i, score: cosine(queryVec, doc)})
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})

	if topN > 0 && len(hits) > topN {
		hits = hits[:topN]
	}
	var result []hit
	for _, h := range hits {
		if h.score > matchThreshold {
			result = append(result, h)
		}
	}
	return result
}

// cosine über L2-normalisierten Vektoren ist das reine Skalarprodukt.
func cosine(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for id, w := range a {
		dot += w * b[id]
	}
	return dot
}
