package storage

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medichat/models"
)

// GormStore implementiert Store über GORM/PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore erstellt einen Store über der gegebenen Datenbankverbindung.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) AllSymptoms() ([]models.Symptom, error) {
	var symptoms []models.Symptom
	err := s.db.Order("id").Find(&symptoms).Error
	return symptoms, err
}

func (s *GormStore) AllDiseases() ([]models.Disease, error) {
	var diseases []models.Disease
	err := s.db.
		Preload("Symptoms").
		Preload("Complications").
		Preload("Preventions").
		Preload("Vaccines").
		Order("id").
		Find(&diseases).Error
	return diseases, err
}

func (s *GormStore) UpsertDisease(name, description, causes string, contagious bool, sourceURL string) (*models.Disease, bool, error) {
	var disease models.Disease
	err := s.db.Where("name = ?", name).First(&disease).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		disease = models.Disease{
			Name:         name,
			Description:  description,
			Causes:       causes,
			IsContagious: contagious,
			SourceURL:    sourceURL,
		}
		if err := s.db.Create(&disease).Error; err != nil {
			return nil, false, err
		}
		return &disease, true, nil
	case err != nil:
		return nil, false, err
	}

	updates := map[string]interface{}{
		"description":   description,
		"causes":        causes,
		"is_contagious": contagious,
		"source_url":    sourceURL,
	}
	if err := s.db.Model(&disease).Updates(updates).Error; err != nil {
		return nil, false, err
	}
	return &disease, false, nil
}

func (s *GormStore) GetOrCreateSymptom(name string) (*models.Symptom, error) {
	var symptom models.Symptom
	err := s.db.Where(models.Symptom{Name: name}).FirstOrCreate(&symptom).Error
	return &symptom, err
}

func (s *GormStore) GetOrCreateComplication(name string) (*models.Complication, error) {
	var complication models.Complication
	err := s.db.Where(models.Complication{Name: name}).FirstOrCreate(&complication).Error
	return &complication, err
}

func (s *GormStore) GetOrCreatePrevention(method string) (*models.Prevention, error) {
	var prevention models.Prevention
	err := s.db.Where(models.Prevention{Method: method}).FirstOrCreate(&prevention).Error
	return &prevention, err
}

func (s *GormStore) GetOrCreateVaccine(name string) (*models.Vaccine, error) {
	var vaccine models.Vaccine
	err := s.db.Where(models.Vaccine{Name: name}).FirstOrCreate(&vaccine).Error
	return &vaccine, err
}

// LinkDiseaseSymptom legt die Verknüpfung an; bestehende Paare werden über
// den zusammengesetzten Primärschlüssel stillschweigend übersprungen.
func (s *GormStore) LinkDiseaseSymptom(diseaseID, symptomID uint) error {
	link := models.DiseaseSymptom{DiseaseID: diseaseID, SymptomID: symptomID}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (s *GormStore) AddComplication(diseaseID uint, c *models.Complication) error {
	return s.db.Model(&models.Disease{ID: diseaseID}).Association("Complications").Append(c)
}

func (s *GormStore) AddPrevention(diseaseID uint, p *models.Prevention) error {
	return s.db.Model(&models.Disease{ID: diseaseID}).Association("Preventions").Append(p)
}

func (s *GormStore) AddVaccine(diseaseID uint, v *models.Vaccine) error {
	return s.db.Model(&models.Disease{ID: diseaseID}).Association("Vaccines").Append(v)
}

func (s *GormStore) DiseasesForSymptom(symptomID uint) ([]models.Disease, error) {
	var diseases []models.Disease
	err := s.db.
		Joins("JOIN disease_symptoms ON disease_symptoms.disease_id = diseases.id").
		Where("disease_symptoms.symptom_id = ?", symptomID).
		Order("diseases.id").
		Find(&diseases).Error
	return diseases, err
}

func (s *GormStore) GetOrCreateSource(url string) (*models.URLSource, error) {
	var source models.URLSource
	err := s.db.Where(models.URLSource{URL: url}).FirstOrCreate(&source).Error
	return &source, err
}

func (s *GormStore) SaveSource(src *models.URLSource) error {
	return s.db.Save(src).Error
}
