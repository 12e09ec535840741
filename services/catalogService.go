package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"Hospitality/cache"
	"Hospitality/models"
	"Hospitality/session"
)

const (
	catalogCacheExpiry = 30 * time.Minute

	medicinesCacheKey    = "catalog_cache:medicines"
	targetOrgansCacheKey = "catalog_cache:target_organs"
	labTestTypesCacheKey = "catalog_cache:lab_test_types"
)

// CatalogAPI is the slice of the hospital client serving reference data.
type CatalogAPI interface {
	FetchMedicineList(ctx context.Context, token string) ([]models.Medicine, error)
	FetchTargetOrgans(ctx context.Context, token string) ([]models.TargetOrgan, error)
	FetchLabTestTypes(ctx context.Context, token string) ([]models.LabTestType, error)
}

// Catalogs are reference lists shared across users and slow to change, so
// fetches go through the cache.
type CatalogService struct {
	api   CatalogAPI
	cache *cache.Cache
}

func NewCatalogService(api CatalogAPI, c *cache.Cache) *CatalogService {
	return &CatalogService{api: api, cache: c}
}

// Medicines returns the hospital's medicine catalog.
func (s *CatalogService) Medicines(ctx context.Context, sess *session.Session) ([]models.Medicine, error) {
	var medicines []models.Medicine
	if s.readCached(ctx, medicinesCacheKey, &medicines) {
		return medicines, nil
	}
	medicines, err := s.api.FetchMedicineList(ctx, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	s.writeCached(ctx, medicinesCacheKey, medicines)
	return medicines, nil
}

// SearchMedicines filters the catalog by a case-insensitive substring of the
// medicine name. An empty query returns the full catalog.
func (s *CatalogService) SearchMedicines(ctx context.Context, sess *session.Session, query string) ([]models.Medicine, error) {
	medicines, err := s.Medicines(ctx, sess)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return medicines, nil
	}
	matched := make([]models.Medicine, 0, len(medicines))
	for _, med := range medicines {
		if strings.Contains(strings.ToLower(med.MedicineName), query) {
			matched = append(matched, med)
		}
	}
	return matched, nil
}

// TargetOrgans returns the organ list used when composing diagnosis items.
func (s *CatalogService) TargetOrgans(ctx context.Context, sess *session.Session) ([]models.TargetOrgan, error) {
	var organs []models.TargetOrgan
	if s.readCached(ctx, targetOrgansCacheKey, &organs) {
		return organs, nil
	}
	organs, err := s.api.FetchTargetOrgans(ctx, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	s.writeCached(ctx, targetOrgansCacheKey, organs)
	return organs, nil
}

// LabTestTypes returns the orderable lab test types.
func (s *CatalogService) LabTestTypes(ctx context.Context, sess *session.Session) ([]models.LabTestType, error) {
	var types []models.LabTestType
	if s.readCached(ctx, labTestTypesCacheKey, &types) {
		return types, nil
	}
	types, err := s.api.FetchLabTestTypes(ctx, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	s.writeCached(ctx, labTestTypesCacheKey, types)
	return types, nil
}

// Invalidate drops every cached catalog list.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteAll(ctx, "catalog_cache:*")
}

func (s *CatalogService) readCached(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			log.Printf("Error reading %s from cache: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("Error decoding cached %s: %v", key, err)
		return false
	}
	return true
}

func (s *CatalogService) writeCached(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("Error encoding %s for cache: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), catalogCacheExpiry); err != nil {
		log.Printf("Error caching %s: %v", key, err)
	}
}
