package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/repositories"
)

// CandidateIndex holds one vector per job-seeker profile, keyed by owner id.
type CandidateIndex interface {
	InitCollection(ctx context.Context) error
	IndexProfile(ctx context.Context, profile *models.UserProfile) error
	Search(ctx context.Context, query CandidateQuery) ([]CandidateMatch, error)
}

type CandidateQuery struct {
	Keywords string `json:"keywords"`
	Location string `json:"location,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type CandidateMatch struct {
	OwnerID  string  `json:"ownerId"`
	FullName string  `json:"fullName"`
	JobTitle string  `json:"jobTitle"`
	Location string  `json:"location"`
	Skills   string  `json:"skills"`
	Score    float32 `json:"score"`
}

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

type qdrantCandidateIndex struct {
	client         *qdrant.Client
	gemini         GeminiService
	promptBuilder  *PromptBuilder
	collectionName string
	vectorSize     uint64
}

func NewCandidateIndex(urlStr, apiKey, collectionName string, gemini GeminiService) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantCandidateIndex{
		client:         client,
		gemini:         gemini,
		promptBuilder:  NewPromptBuilder(),
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004
	}, nil
}

// InitCollection implements CandidateIndex.
func (q *qdrantCandidateIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Candidate collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// IndexProfile implements CandidateIndex. Re-indexing the same owner
// overwrites the previous point.
func (q *qdrantCandidateIndex) IndexProfile(ctx context.Context, profile *models.UserProfile) error {
	text := q.promptBuilder.BuildCandidateDocument(profile)
	if text == "" {
		return nil
	}

	embedding, err := q.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		return err
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(profile.OwnerID),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"ownerId":  profile.OwnerID,
			"fullName": profile.FullName,
			"jobTitle": profile.JobTitle,
			"location": profile.Location,
			"skills":   profile.Skills,
		}),
	}

	_, err = q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert candidate: %w", err)
	}

	return nil
}

// Search implements CandidateIndex.
func (q *qdrantCandidateIndex) Search(ctx context.Context, query CandidateQuery) ([]CandidateMatch, error) {
	embedding, err := q.gemini.GenerateEmbedding(ctx, query.Keywords)
	if err != nil {
		return nil, err
	}

	var filter *qdrant.Filter
	if location := strings.TrimSpace(query.Location); location != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("location", location),
			},
		}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(query.Limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	matches := make([]CandidateMatch, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		matches = append(matches, CandidateMatch{
			OwnerID:  payload["ownerId"].GetStringValue(),
			FullName: payload["fullName"].GetStringValue(),
			JobTitle: payload["jobTitle"].GetStringValue(),
			Location: payload["location"].GetStringValue(),
			Skills:   payload["skills"].GetStringValue(),
			Score:    point.Score,
		})
	}

	return matches, nil
}

// CandidateSearch restricts the index to recruiters.
type CandidateSearch struct {
	index   CandidateIndex
	gateway PersistenceGateway
}

func NewCandidateSearch(index CandidateIndex, gateway PersistenceGateway) *CandidateSearch {
	return &CandidateSearch{index: index, gateway: gateway}
}

func (s *CandidateSearch) Search(ctx context.Context, requesterID string, query CandidateQuery) ([]CandidateMatch, error) {
	profile, err := s.gateway.GetProfile(ctx, requesterID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, ErrForbiddenRole
	}
	if err != nil {
		return nil, err
	}
	if profile.Role != models.RoleRecruiter {
		return nil, ErrForbiddenRole
	}

	if strings.TrimSpace(query.Keywords) == "" {
		return nil, invalidRequest("keywords are required")
	}
	if query.Limit <= 0 {
		query.Limit = defaultSearchLimit
	}
	if query.Limit > maxSearchLimit {
		query.Limit = maxSearchLimit
	}

	return s.index.Search(ctx, query)
}
