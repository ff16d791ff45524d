package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/P3chys/fresher-portal/internal/config"
	"github.com/P3chys/fresher-portal/internal/models"
	"github.com/meilisearch/meilisearch-go"
	"github.com/sirupsen/logrus"
)

const employeesIndex = "employees"

// EmployeeDocument is the searchable projection of an employee.
type EmployeeDocument struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Domain  string `json:"domain"`
	BatchID *uint  `json:"batch_id"`
}

func NewEmployeeDocument(e models.Employee) EmployeeDocument {
	doc := EmployeeDocument{ID: e.ID, Name: e.Name, Email: e.Email, BatchID: e.BatchID}
	if e.Domain != nil {
		doc.Domain = *e.Domain
	}
	return doc
}

type SearchService struct {
	client *meilisearch.Client
	index  string
}

func NewSearchService(cfg *config.Config, log *logrus.Logger) *SearchService {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   cfg.MeiliURL,
		APIKey: cfg.MeiliAPIKey,
	})

	// Ensure employees index exists (best effort)
	_, err := client.GetIndex(employeesIndex)
	if err != nil {
		_, err = client.CreateIndex(&meilisearch.IndexConfig{
			Uid:        employeesIndex,
			PrimaryKey: "id",
		})
		if err != nil {
			log.WithError(err).Warn("Failed to create meilisearch employees index")
		}

		_, err = client.Index(employeesIndex).UpdateFilterableAttributes(&[]string{"batch_id", "domain"})
		if err != nil {
			log.WithError(err).Warn("Failed to update filterable attributes")
		}

		_, err = client.Index(employeesIndex).UpdateSearchableAttributes(&[]string{"name", "email", "domain"})
		if err != nil {
			log.WithError(err).Warn("Failed to update searchable attributes")
		}
	}

	return &SearchService{
		client: client,
		index:  employeesIndex,
	}
}

func (s *SearchService) IndexEmployee(_ context.Context, employee models.Employee) error {
	_, err := s.client.Index(s.index).AddDocuments([]EmployeeDocument{NewEmployeeDocument(employee)})
	return err
}

func (s *SearchService) IndexEmployees(employees []models.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	docs := make([]EmployeeDocument, 0, len(employees))
	for _, e := range employees {
		docs = append(docs, NewEmployeeDocument(e))
	}
	_, err := s.client.Index(s.index).AddDocuments(docs)
	return err
}

func (s *SearchService) SearchEmployees(_ context.Context, query string, limit int64) ([]EmployeeDocument, error) {
	resp, err := s.client.Index(s.index).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	return decodeHits(resp.Hits)
}

// decodeHits converts the generic hit maps into documents. The result is
// never nil so an empty search renders as [].
func decodeHits(hits []interface{}) ([]EmployeeDocument, error) {
	docs := []EmployeeDocument{}
	if len(hits) == 0 {
		return docs, nil
	}
	raw, err := json.Marshal(hits)
	if err != nil {
		return nil, fmt.Errorf("failed to decode search hits: %w", err)
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode search hits: %w", err)
	}
	return docs, nil
}

func (s *SearchService) GetEmployeeCount() (int64, error) {
	stats, err := s.client.Index(s.index).GetStats()
	if err != nil {
		return 0, err
	}
	return stats.NumberOfDocuments, nil
}
