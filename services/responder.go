package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"medichat/models"
	"medichat/storage"
)

// Disclaimer wird an jede inhaltliche Antwort angehängt.
const Disclaimer = "Xin lưu ý đây chỉ là thông tin tham khảo, vui lòng tham khảo ý kiến bác sĩ."

// FallbackMessage wird zurückgegeben, wenn weder Symptome noch Krankheiten zur
// Anfrage passen.
const FallbackMessage = "Tôi không có đủ thông tin để xử lý yêu cầu của bạn. Vui lòng mô tả chi tiết hơn về triệu chứng hoặc bệnh bạn đang tìm hiểu."

// matchTopN begrenzt die Trefferanzahl pro Vektorraum.
const matchTopN = 3

// QueryResponder formuliert aus den Index-Treffern eine vietnamesische Antwort.
type QueryResponder struct {
	Store  storage.Store
	Index  *SimilarityIndex
	Logger *zap.Logger
}

// NewQueryResponder erstellt eine neue Instanz des QueryResponder.
func NewQueryResponder(store storage.Store, index *SimilarityIndex, logger *zap.Logger) *QueryResponder {
	return &QueryResponder{Store: store, Index: index, Logger: logger}
}

// Respond beantwortet eine freie Nutzeranfrage. Je nachdem, ob Symptome,
// Krankheiten, beides oder nichts zur Anfrage passt, wird eine andere
// Antwortform gewählt.
func (r *QueryResponder) Respond(query string) string {
	symptoms := r.Index.MatchSymptoms(query, matchTopN)
	diseases := r.Index.MatchDiseases(query, matchTopN)

	switch {
	case len(symptoms) > 0 && len(diseases) > 0:
		return fmt.Sprintf(
			"Tôi nhận thấy bạn có thể đang mô tả các triệu chứng: %s. Điều này có thể liên quan đến: %s. %s",
			symptomNames(symptoms), diseaseNames(diseases), Disclaimer)

	case len(symptoms) > 0:
		return r.respondSymptomsOnly(symptoms)

	case len(diseases) > 0:
		return r.diseaseProfile(diseases[0].Disease)

	default:
		return FallbackMessage
	}
}

// respondSymptomsOnly sucht zu den erkannten Symptomen die verknüpften
// Krankheiten aus der Datenbank zusammen.
func (r *QueryResponder) respondSymptomsOnly(symptoms []SymptomMatch) string {
	symptomsText := symptomNames(symptoms)

	seen := make(map[uint]bool)
	var related []string
	for _, m := range symptoms {
		diseases, err := r.Store.DiseasesForSymptom(m.Symptom.ID)
		if err != nil {
			r.Logger.Error("Verknüpfte Krankheiten konnten nicht geladen werden",
				zap.String("symptom", m.Symptom.Name), zap.Error(err))
			continue
		}
		for _, d := range diseases {
			if !seen[d.ID] {
				seen[d.ID] = true
				related = append(related, d.Name)
			}
		}
	}

	if len(related) > 0 {
		return fmt.Sprintf(
			"Tôi nhận thấy bạn có thể đang mô tả các triệu chứng: %s. Những triệu chứng này có thể liên quan đến: %s. %s",
			symptomsText, strings.Join(related, ", "), Disclaimer)
	}
	return fmt.Sprintf(
		"Tôi nhận thấy bạn có thể đang mô tả các triệu chứng: %s. Tôi không có đủ thông tin để xác định bệnh cụ thể. Vui lòng mô tả chi tiết hơn hoặc tham khảo ý kiến bác sĩ.",
		symptomsText)
}

func symptomNames(matches []SymptomMatch) string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Symptom.Name)
	}
	return strings.Join(names, ", ")
}

func diseaseNames(matches []DiseaseMatch) string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Disease.Name)
	}
	return strings.Join(names, ", ")
}

// diseaseProfile baut die ausführliche Antwort zur bestpassenden Krankheit.
func (r *QueryResponder) diseaseProfile(disease models.Disease) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bệnh %s: %s", disease.Name, disease.Description)

	if len(disease.Symptoms) > 0 {
		names := make([]string, 0, len(disease.Symptoms))
		for _, s := range disease.Symptoms {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, "\n\nTriệu chứng thường gặp: %s", strings.Join(names, ", "))
	}
	if len(disease.Complications) > 0 {
		names := make([]string, 0, len(disease.Complications))
		for _, c := range disease.Complications {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&b, "\n\nBiến chứng có thể xảy ra: %s", strings.Join(names, ", "))
	}
	if len(disease.Preventions) > 0 {
		methods := make([]string, 0, len(disease.Preventions))
		for _, p := range disease.Preventions {
			methods = append(methods, p.Method)
		}
		fmt.Fprintf(&b, "\n\nCách phòng ngừa: %s", strings.Join(methods, ", "))
	}
	if len(disease.Vaccines) > 0 {
		names := make([]string, 0, len(disease.Vaccines))
		for _, v := range disease.Vaccines {
			names = append(names, v.Name)
		}
		fmt.Fprintf(&b, "\n\nVắc-xin phòng bệnh: %s", strings.Join(names, ", "))
	}
	if disease.SourceURL != "" {
		fmt.Fprintf(&b, "\n\nNguồn tham khảo: %s", disease.SourceURL)
	}
	b.WriteString("\n\n")
	b.WriteString(Disclaimer)
	return b.String()
}
