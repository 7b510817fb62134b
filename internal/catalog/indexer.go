// internal/catalog/indexer.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"career-guidance-workers/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
)

const DefaultMajorsIndex = "majors"

// MajorDocument is the search representation of a major.
type MajorDocument struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Pathway             string   `json:"rebPathway"`
	PathwayName         string   `json:"pathwayName"`
	Difficulty          string   `json:"difficulty"`
	Duration            int      `json:"duration"`
	RequiredGPA         float64  `json:"requiredGPA"`
	RequiredSubjects    []string `json:"requiredSubjects"`
	RelatedCareers      []string `json:"relatedCareers"`
	RwandanUniversities []string `json:"rwandanUniversities"`
	EntrySalary         int      `json:"entrySalary"`
	MidSalary           int      `json:"midSalary"`
	SeniorSalary        int      `json:"seniorSalary"`
	CatalogVersion      string   `json:"catalogVersion"`
}

const majorsMapping = `{
	"mappings": {
		"properties": {
			"id": {"type": "keyword"},
			"name": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"description": {"type": "text"},
			"rebPathway": {"type": "keyword"},
			"pathwayName": {"type": "text"},
			"difficulty": {"type": "keyword"},
			"duration": {"type": "integer"},
			"requiredGPA": {"type": "float"},
			"requiredSubjects": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"relatedCareers": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"rwandanUniversities": {"type": "keyword"},
			"entrySalary": {"type": "integer"},
			"midSalary": {"type": "integer"},
			"seniorSalary": {"type": "integer"},
			"catalogVersion": {"type": "keyword"}
		}
	}
}`

type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	if index == "" {
		index = DefaultMajorsIndex
	}
	return &Indexer{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-indexer", "index": index}),
	}
}

func (c *Catalog) Documents() []MajorDocument {
	docs := make([]MajorDocument, 0, len(c.Majors))
	for _, m := range c.Majors {
		docs = append(docs, MajorDocument{
			ID:                  m.ID,
			Name:                m.Name,
			Description:         m.Description,
			Pathway:             string(m.Pathway),
			PathwayName:         c.PathwayName(m.Pathway),
			Difficulty:          string(m.Difficulty),
			Duration:            m.Duration,
			RequiredGPA:         m.RequiredGPA,
			RequiredSubjects:    m.RequiredSubjects,
			RelatedCareers:      m.RelatedCareers,
			RwandanUniversities: m.RwandanUniversities,
			EntrySalary:         m.AverageSalary.Entry,
			MidSalary:           m.AverageSalary.Mid,
			SeniorSalary:        m.AverageSalary.Senior,
			CatalogVersion:      c.Version,
		})
	}
	return docs
}

// EnsureIndex creates the majors index with its mapping when it is missing.
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	res, err := ix.client.Indices.Exists([]string{ix.index}, ix.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", ix.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index %s: %s", ix.index, res.Status())
	}

	res, err = ix.client.Indices.Create(
		ix.index,
		ix.client.Indices.Create.WithContext(ctx),
		ix.client.Indices.Create.WithBody(strings.NewReader(majorsMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", ix.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", ix.index, res.String())
	}

	ix.logger.Info("index created", nil)
	return nil
}

// IndexMajors bulk-indexes every major of c, replacing documents with the same ID.
func (ix *Indexer) IndexMajors(ctx context.Context, c *Catalog) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	docs := c.Documents()
	for _, doc := range docs {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": ix.index, "_id": doc.ID}}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(doc); err != nil {
			return 0, err
		}
	}

	res, err := ix.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		ix.client.Bulk.WithContext(ctx),
		ix.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("bulk index: %s", res.String())
	}

	var body struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  *struct {
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode bulk response: %w", err)
	}

	indexed := 0
	var failures []string
	for _, item := range body.Items {
		for _, result := range item {
			if result.Error != nil {
				failures = append(failures, result.Error.Reason)
				continue
			}
			indexed++
		}
	}
	if body.Errors {
		return indexed, fmt.Errorf("bulk index: %d of %d documents failed: %s", len(failures), len(docs), strings.Join(failures, "; "))
	}

	ix.logger.Info("majors indexed", map[string]interface{}{
		"count":   indexed,
		"version": c.Version,
	})
	return indexed, nil
}
