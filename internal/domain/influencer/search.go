package influencer

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/google/uuid"

	importrepo "github.com/harukimedia/giftflow/internal/domain/import/repository"
)

// searchDocument is the indexed shape of one influencer.
type searchDocument struct {
	ID         string `json:"id"`
	Brand      string `json:"brand"`
	InstaName  string `json:"insta_name"`
	TikTokName string `json:"tiktok_name"`
	Country    string `json:"country"`
	Handles    string `json:"handles"` // both names, full-text searchable
}

// SearchIndex is an in-memory bleve index over influencer handles. The
// cron scheduler rebuilds it; the directory handler queries it for the
// q= parameter.
type SearchIndex struct {
	index   bleve.Index
	indexMu sync.RWMutex
}

// NewSearchIndex creates an empty in-memory index.
func NewSearchIndex() (*SearchIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &SearchIndex{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = simple.Name

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("brand", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("insta_name", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("tiktok_name", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("country", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("handles", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = simple.Name
	return indexMapping
}

// Rebuild replaces the index contents with the given influencers.
func (si *SearchIndex) Rebuild(influencers []importrepo.Influencer) error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()

	batch := si.index.NewBatch()
	for i := range influencers {
		inf := &influencers[i]
		doc := searchDocument{
			ID:         inf.ID.String(),
			Brand:      inf.Brand,
			InstaName:  inf.InstaName,
			TikTokName: inf.TikTokName,
			Country:    inf.Country,
			Handles:    inf.InstaName + " " + inf.TikTokName,
		}
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("failed to index influencer %s: %w", inf.ID, err)
		}
	}
	if err := si.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch index: %w", err)
	}
	return nil
}

// Search returns the IDs of influencers matching the query, best first.
// One edit of fuzziness covers the typos operators actually make.
func (si *SearchIndex) Search(query string, limit int) ([]uuid.UUID, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetFuzziness(1)

	searchRequest := bleve.NewSearchRequest(matchQuery)
	searchRequest.Size = limit

	result, err := si.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search influencers: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
