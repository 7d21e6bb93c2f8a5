package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"medichat/config"
	"medichat/extractors"
	"medichat/storage"
)

// CustomTransport fügt jeder Anfrage einen Browser-User-Agent-Header hinzu.
type CustomTransport struct {
	Transport http.RoundTripper
	UserAgent string
}

func (t *CustomTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", t.UserAgent)
	return t.Transport.RoundTrip(req)
}

// PageFetcher lädt den HTML-Inhalt einer URL.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

type httpPageFetcher struct {
	client *http.Client
}

// NewPageFetcher erstellt einen HTTP-basierten PageFetcher mit dem
// konfigurierten Timeout und User-Agent.
func NewPageFetcher(cfg *config.Config) PageFetcher {
	return &httpPageFetcher{
		client: &http.Client{
			Timeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
			Transport: &CustomTransport{
				Transport: http.DefaultTransport,
				UserAgent: cfg.FetchUserAgent,
			},
		},
	}
}

func (f *httpPageFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("anfrage für %s konnte nicht erstellt werden: %w", pageURL, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// KnowledgeUpdater kümmert sich um die Orchestrierung des gesamten Crawl-Prozesses:
// Seiten abrufen, Krankheitsdaten extrahieren, in der Datenbank ablegen und
// anschließend den Ähnlichkeitsindex neu aufbauen.
type KnowledgeUpdater struct {
	Config     *config.Config
	Store      storage.Store
	Fetcher    PageFetcher
	Dispatcher *extractors.Dispatcher
	Index      *SimilarityIndex
	S3Client   *s3.Client
	Logger     *zap.Logger

	mu sync.Mutex
}

// NewKnowledgeUpdater erstellt eine neue Instanz des KnowledgeUpdater.
// s3Client darf nil sein; dann werden keine Snapshots archiviert.
func NewKnowledgeUpdater(cfg *config.Config, store storage.Store, fetcher PageFetcher, dispatcher *extractors.Dispatcher, index *SimilarityIndex, s3Client *s3.Client, logger *zap.Logger) *KnowledgeUpdater {
	return &KnowledgeUpdater{
		Config:     cfg,
		Store:      store,
		Fetcher:    fetcher,
		Dispatcher: dispatcher,
		Index:      index,
		S3Client:   s3Client,
		Logger:     logger,
	}
}

// Refresh führt den Crawl für die gegebenen URLs aus und gibt die Anzahl der
// importierten Krankheitsdatensätze zurück. Ohne URLs werden die konfigurierten
// Standard-Quellen verwendet. Läufe werden serialisiert; fehlgeschlagene URLs
// werden protokolliert und übersprungen.
func (u *KnowledgeUpdater) Refresh(ctx context.Context, urls []string) int {
	u.mu.Lock()
	defer u.mu.Unlock()

	if len(urls) == 0 {
		urls = u.Config.DefaultSourceURLs()
	}
	u.Logger.Info("Starte Aktualisierung der Wissensbasis", zap.Int("url_count", len(urls)))

	total := 0
	for _, pageURL := range urls {
		count, err := u.refreshURL(ctx, pageURL)
		if err != nil {
			u.Logger.Error("URL konnte nicht verarbeitet werden", zap.String("url", pageURL), zap.Error(err))
			continue
		}
		total += count
	}

	u.RebuildIndex()
	u.Logger.Info("Aktualisierung abgeschlossen", zap.Int("diseases_imported", total))
	return total
}

// refreshURL verarbeitet eine einzelne Quelle.
func (u *KnowledgeUpdater) refreshURL(ctx context.Context, pageURL string) (int, error) {
	log := u.Logger.With(zap.String("url", pageURL))

	content, err := u.Fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return 0, fmt.Errorf("seite konnte nicht geladen werden: %w", err)
	}

	u.archiveSnapshot(ctx, pageURL, content)

	extractor := u.Dispatcher.ForURL(pageURL, content)
	records := extractor.Extract(content)
	log.Info("Extraktion abgeschlossen", zap.String("extractor", extractor.Name()), zap.Int("records", len(records)))

	count := 0
	for _, rec := range records {
		if err := u.storeRecord(rec, pageURL); err != nil {
			log.Error("Datensatz konnte nicht gespeichert werden", zap.String("disease", rec.Name), zap.Error(err))
			continue
		}
		count++
	}

	u.recordSourceSuccess(pageURL, count)
	return count, nil
}

// storeRecord legt einen extrahierten Krankheitsdatensatz samt verknüpfter
// Entitäten in der Datenbank ab.
func (u *KnowledgeUpdater) storeRecord(rec extractors.Record, sourceURL string) error {
	disease, created, err := u.Store.UpsertDisease(rec.Name, rec.Description, rec.Causes, rec.IsContagious, sourceURL)
	if err != nil {
		return err
	}
	if created {
		u.Logger.Debug("Neue Krankheit angelegt", zap.String("name", rec.Name))
	}

	for _, name := range rec.Symptoms {
		symptom, err := u.Store.GetOrCreateSymptom(name)
		if err != nil {
			return err
		}
		if err := u.Store.LinkDiseaseSymptom(disease.ID, symptom.ID); err != nil {
			return err
		}
	}
	for _, name := range rec.Complications {
		complication, err := u.Store.GetOrCreateComplication(name)
		if err != nil {
			return err
		}
		if err := u.Store.AddComplication(disease.ID, complication); err != nil {
			return err
		}
	}
	for _, method := range rec.Preventions {
		prevention, err := u.Store.GetOrCreatePrevention(method)
		if err != nil {
			return err
		}
		if err := u.Store.AddPrevention(disease.ID, prevention); err != nil {
			return err
		}
	}
	for _, name := range rec.Vaccines {
		vaccine, err := u.Store.GetOrCreateVaccine(name)
		if err != nil {
			return err
		}
		if err := u.Store.AddVaccine(disease.ID, vaccine); err != nil {
			return err
		}
	}
	return nil
}

// recordSourceSuccess aktualisiert die URL-Buchhaltung. Fehler hier brechen
// den Lauf nicht ab.
func (u *KnowledgeUpdater) recordSourceSuccess(pageURL string, imported int) {
	src, err := u.Store.GetOrCreateSource(pageURL)
	if err != nil {
		u.Logger.Warn("Quelle konnte nicht geladen werden", zap.String("url", pageURL), zap.Error(err))
		return
	}
	now := time.Now()
	src.LastUpdated = &now
	src.SuccessCount = imported
	if err := u.Store.SaveSource(src); err != nil {
		u.Logger.Warn("Quelle konnte nicht gespeichert werden", zap.String("url", pageURL), zap.Error(err))
	}
}

// archiveSnapshot legt die rohe HTML-Seite im S3-Archiv ab, sofern konfiguriert.
func (u *KnowledgeUpdater) archiveSnapshot(ctx context.Context, pageURL, content string) {
	if u.S3Client == nil || !u.Config.SnapshotsEnabled() {
		return
	}
	key := snapshotKey(pageURL, time.Now())
	link, err := storage.UploadSnapshot(ctx, u.S3Client, u.Config.SnapshotS3Bucket, key, content, u.Config)
	if err != nil {
		u.Logger.Warn("Snapshot-Upload fehlgeschlagen", zap.String("url", pageURL), zap.Error(err))
		return
	}
	u.Logger.Info("Snapshot archiviert", zap.String("s3_link", link))
}

// snapshotKey bildet den S3-Schlüssel aus Host und Datum der Quelle.
func snapshotKey(pageURL string, t time.Time) string {
	host := "unknown"
	if parsed, err := url.Parse(pageURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}
	return fmt.Sprintf("%s/%s.html", host, t.Format("2006-01-02"))
}

// RebuildIndex lädt Symptome und Krankheiten und baut den Ähnlichkeitsindex
// neu auf. Schlägt das Laden fehl, bleibt der bisherige Index bestehen.
func (u *KnowledgeUpdater) RebuildIndex() {
	symptoms, err := u.Store.AllSymptoms()
	if err != nil {
		u.Logger.Error("Symptome konnten nicht geladen werden, Index bleibt unverändert", zap.Error(err))
		return
	}
	diseases, err := u.Store.AllDiseases()
	if err != nil {
		u.Logger.Error("Krankheiten konnten nicht geladen werden, Index bleibt unverändert", zap.Error(err))
		return
	}
	u.Index.Rebuild(symptoms, diseases)
}
