package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/ayucare/internal/domain/entities"
	"github.com/zatekoja/ayucare/internal/domain/repositories"
	tsclient "github.com/zatekoja/ayucare/internal/infrastructure/clients/typesense"
)

const (
	collectionName = tsclient.DoctorsCollection
	defaultLimit   = 50
)

// TypesenseAdapter implements doctor search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements DoctorSearchRepository
var _ repositories.DoctorSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// Index upserts a doctor. Unavailable doctors stay indexed and are
// filtered out at query time.
func (a *TypesenseAdapter) Index(ctx context.Context, doctor *entities.Doctor) error {
	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, doctorDocument(doctor))
	if err != nil {
		return fmt.Errorf("failed to index doctor: %w", err)
	}
	return nil
}

// Delete removes a doctor from index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete doctor from index: %w", err)
	}
	return nil
}

// Search returns matching available doctor IDs in relevance order
func (a *TypesenseAdapter) Search(ctx context.Context, params repositories.DoctorSearchParams) ([]string, error) {
	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, buildSearchParams(params))
	if err != nil {
		return nil, fmt.Errorf("failed to search doctors: %w", err)
	}
	return hitIDs(result), nil
}

func doctorDocument(doctor *entities.Doctor) map[string]interface{} {
	services := doctor.Services
	if services == nil {
		services = []string{}
	}
	return map[string]interface{}{
		"id":         doctor.ID,
		"name":       doctor.Name,
		"specialty":  doctor.Specialty,
		"services":   services,
		"terms":      BuildDoctorTerms(doctor),
		"rating":     doctor.RatingValue(),
		"available":  doctor.Available,
		"created_at": doctor.CreatedAt.Unix(),
	}
}

func buildSearchParams(params repositories.DoctorSearchParams) *api.SearchCollectionParams {
	q := strings.TrimSpace(params.Query)
	if q == "" {
		q = "*"
	}

	filter := "available:=true"
	if s := strings.TrimSpace(params.Specialty); s != "" && !strings.EqualFold(s, "All") {
		filter += " && specialty:=`" + strings.ReplaceAll(s, "`", "") + "`"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	return &api.SearchCollectionParams{
		Q:        pointer.String(q),
		QueryBy:  pointer.String("name,specialty,terms"),
		FilterBy: pointer.String(filter),
		SortBy:   pointer.String("_text_match:desc,rating:desc"),
		Page:     pointer.Int(1),
		PerPage:  pointer.Int(limit),
	}
}

func hitIDs(result *api.SearchResult) []string {
	ids := []string{}
	if result == nil || result.Hits == nil {
		return ids
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if id, ok := (*hit.Document)["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
