package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medichat/config"
	"medichat/extractors"
	"medichat/models"
)

// fakeStore ist eine In-Memory-Implementierung von storage.Store für Tests.
type fakeStore struct {
	nextID uint

	diseases []*models.Disease
	symptoms []*models.Symptom

	complications map[string]*models.Complication
	preventions   map[string]*models.Prevention
	vaccines      map[string]*models.Vaccine

	// symptomID -> diseaseIDs in Verknüpfungsreihenfolge
	symptomDiseases map[uint][]uint

	sources map[string]*models.URLSource

	failListing bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		complications:   map[string]*models.Complication{},
		preventions:     map[string]*models.Prevention{},
		vaccines:        map[string]*models.Vaccine{},
		symptomDiseases: map[uint][]uint{},
		sources:         map[string]*models.URLSource{},
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) AllSymptoms() ([]models.Symptom, error) {
	if f.failListing {
		return nil, fmt.Errorf("listing failed")
	}
	out := make([]models.Symptom, 0, len(f.symptoms))
	for _, s := range f.symptoms {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) AllDiseases() ([]models.Disease, error) {
	if f.failListing {
		return nil, fmt.Errorf("listing failed")
	}
	out := make([]models.Disease, 0, len(f.diseases))
	for _, d := range f.diseases {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeStore) UpsertDisease(name, description, causes string, contagious bool, sourceURL string) (*models.Disease, bool, error) {
	for _, d := range f.diseases {
		if d.Name == name {
			d.Description = description
			d.Causes = causes
			d.IsContagious = contagious
			d.SourceURL = sourceURL
			return d, false, nil
		}
	}
	d := &models.Disease{
		ID: f.id(), Name: name, Description: description,
		Causes: causes, IsContagious: contagious, SourceURL: sourceURL,
	}
	f.diseases = append(f.diseases, d)
	return d, true, nil
}

func (f *fakeStore) GetOrCreateSymptom(name string) (*models.Symptom, error) {
	for _, s := range f.symptoms {
		if s.Name == name {
			return s, nil
		}
	}
	s := &models.Symptom{ID: f.id(), Name: name}
	f.symptoms = append(f.symptoms, s)
	return s, nil
}

func (f *fakeStore) GetOrCreateComplication(name string) (*models.Complication, error) {
	if c, ok := f.complications[name]; ok {
		return c, nil
	}
	c := &models.Complication{ID: f.id(), Name: name}
	f.complications[name] = c
	return c, nil
}

func (f *fakeStore) GetOrCreatePrevention(method string) (*models.Prevention, error) {
	if p, ok := f.preventions[method]; ok {
		return p, nil
	}
	p := &models.Prevention{ID: f.id(), Method: method}
	f.preventions[method] = p
	return p, nil
}

func (f *fakeStore) GetOrCreateVaccine(name string) (*models.Vaccine, error) {
	if v, ok := f.vaccines[name]; ok {
		return v, nil
	}
	v := &models.Vaccine{ID: f.id(), Name: name}
	f.vaccines[name] = v
	return v, nil
}

func (f *fakeStore) disease(id uint) *models.Disease {
	for _, d := range f.diseases {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (f *fakeStore) LinkDiseaseSymptom(diseaseID, symptomID uint) error {
	for _, linked := range f.symptomDiseases[symptomID] {
		if linked == diseaseID {
			return nil
		}
	}
	f.symptomDiseases[symptomID] = append(f.symptomDiseases[symptomID], diseaseID)
	if d := f.disease(diseaseID); d != nil {
		for _, s := range f.symptoms {
			if s.ID == symptomID {
				d.Symptoms = append(d.Symptoms, *s)
			}
		}
	}
	return nil
}

func (f *fakeStore) AddComplication(diseaseID uint, c *models.Complication) error {
	d := f.disease(diseaseID)
	for _, existing := range d.Complications {
		if existing.ID == c.ID {
			return nil
		}
	}
	d.Complications = append(d.Complications, *c)
	return nil
}

func (f *fakeStore) AddPrevention(diseaseID uint, p *models.Prevention) error {
	d := f.disease(diseaseID)
	for _, existing := range d.Preventions {
		if existing.ID == p.ID {
			return nil
		}
	}
	d.Preventions = append(d.Preventions, *p)
	return nil
}

func (f *fakeStore) AddVaccine(diseaseID uint, v *models.Vaccine) error {
	d := f.disease(diseaseID)
	for _, existing := range d.Vaccines {
		if existing.ID == v.ID {
			return nil
		}
	}
	d.Vaccines = append(d.Vaccines, *v)
	return nil
}

func (f *fakeStore) DiseasesForSymptom(symptomID uint) ([]models.Disease, error) {
	var out []models.Disease
	for _, id := range f.symptomDiseases[symptomID] {
		if d := f.disease(id); d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeStore) GetOrCreateSource(url string) (*models.URLSource, error) {
	if s, ok := f.sources[url]; ok {
		return s, nil
	}
	s := &models.URLSource{ID: f.id(), URL: url, Active: true}
	f.sources[url] = s
	return s, nil
}

func (f *fakeStore) SaveSource(src *models.URLSource) error {
	f.sources[src.URL] = src
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		FetchTimeoutSeconds: 5,
		FetchUserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
}

func newTestUpdater(store *fakeStore) *KnowledgeUpdater {
	cfg := testConfig()
	logger := zap.NewNop()
	index := NewSimilarityIndex(NewTextNormalizer(), logger)
	return NewKnowledgeUpdater(cfg, store, NewPageFetcher(cfg), extractors.NewDispatcher(logger), index, nil, logger)
}

const diseaseListPage = `<html><body>
<h2>Các bệnh truyền nhiễm thường gặp</h2>
<p>1. Cảm cúm là bệnh do virus gây ra. Triệu chứng: sốt, ho. Bệnh lây qua đường hô hấp.</p>
<h2>Làm sao để phòng ngừa bệnh</h2>
</body></html>`

func TestRefreshImportsDiseases(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, diseaseListPage)
	}))
	defer srv.Close()

	store := newFakeStore()
	updater := newTestUpdater(store)

	count := updater.Refresh(context.Background(), []string{srv.URL})
	assert.Equal(t, 1, count)
	assert.Equal(t, testConfig().FetchUserAgent, gotUserAgent)

	require.Len(t, store.diseases, 1)
	disease := store.diseases[0]
	assert.Equal(t, "Cảm cúm", disease.Name)
	assert.Contains(t, disease.Description, "là bệnh do virus gây ra")
	assert.Equal(t, "virus", disease.Causes)
	assert.True(t, disease.IsContagious)
	assert.Equal(t, srv.URL, disease.SourceURL)

	var names []string
	for _, s := range disease.Symptoms {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"ho", "sốt"}, names)

	// Quellen-Buchhaltung
	src := store.sources[srv.URL]
	require.NotNil(t, src)
	require.NotNil(t, src.LastUpdated)
	assert.Equal(t, 1, src.SuccessCount)

	// Der Index ist nach dem Lauf abfragbar
	matches := updater.Index.MatchDiseases("bệnh cảm cúm", 3)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Cảm cúm", matches[0].Disease.Name)
}

func TestRefreshIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, diseaseListPage)
	}))
	defer srv.Close()

	store := newFakeStore()
	updater := newTestUpdater(store)

	updater.Refresh(context.Background(), []string{srv.URL})
	count := updater.Refresh(context.Background(), []string{srv.URL})

	assert.Equal(t, 1, count)
	assert.Len(t, store.diseases, 1)
	assert.Len(t, store.diseases[0].Symptoms, 2)
	assert.Equal(t, 1, store.sources[srv.URL].SuccessCount)
}

func TestRefreshUpdatesChangedDescription(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			fmt.Fprint(w, diseaseListPage)
			return
		}
		fmt.Fprint(w, `<html><body>
<h2>Các bệnh truyền nhiễm thường gặp</h2>
<p>1. Cảm cúm là bệnh hô hấp do virus gây ra. Triệu chứng: sốt, ho. Bệnh lây qua đường hô hấp.</p>
<h2>Làm sao để phòng ngừa bệnh</h2>
</body></html>`)
	}))
	defer srv.Close()

	store := newFakeStore()
	updater := newTestUpdater(store)
	updater.Refresh(context.Background(), []string{srv.URL})
	updater.Refresh(context.Background(), []string{srv.URL})

	require.Len(t, store.diseases, 1)
	assert.Equal(t, "là bệnh hô hấp do virus gây ra", store.diseases[0].Description)
}

func TestRespondAfterRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, diseaseListPage)
	}))
	defer srv.Close()

	store := newFakeStore()
	updater := newTestUpdater(store)
	updater.Refresh(context.Background(), []string{srv.URL})

	responder := NewQueryResponder(store, updater.Index, zap.NewNop())
	answer := responder.Respond("sốt và ho")
	assert.Contains(t, answer, "Cảm cúm")
	assert.Contains(t, answer, Disclaimer)
}

func TestRespondEmptyQueryEmptyCorpus(t *testing.T) {
	store := newFakeStore()
	updater := newTestUpdater(store)
	responder := NewQueryResponder(store, updater.Index, zap.NewNop())

	assert.Equal(t, FallbackMessage, responder.Respond(""))
}

func TestRefreshSkipsFailingURLs(t *testing.T) {
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, diseaseListPage)
	}))
	defer okSrv.Close()
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer badSrv.Close()

	store := newFakeStore()
	updater := newTestUpdater(store)

	count := updater.Refresh(context.Background(), []string{badSrv.URL, okSrv.URL})
	assert.Equal(t, 1, count)
	assert.Len(t, store.diseases, 1)

	// Fehlgeschlagene Quellen tauchen nicht in der Erfolgs-Buchhaltung auf
	assert.NotContains(t, store.sources, badSrv.URL)
}

func TestRefreshKeepsIndexOnListingFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, diseaseListPage)
	}))
	defer srv.Close()

	store := newFakeStore()
	updater := newTestUpdater(store)
	updater.Refresh(context.Background(), []string{srv.URL})
	require.NotEmpty(t, updater.Index.MatchDiseases("bệnh cảm cúm", 3))

	// Schlägt das Laden beim Rebuild fehl, bleibt der alte Stand abfragbar
	store.failListing = true
	updater.Refresh(context.Background(), []string{srv.URL})
	assert.NotEmpty(t, updater.Index.MatchDiseases("bệnh cảm cúm", 3))
}
