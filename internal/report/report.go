package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/avetrov/crosswalk/internal/model"
)

// Source identifies where the evidence text came from
type Source struct {
	Subject    string
	Accreditor string          // Target accreditor code; empty means whole corpus
	Path       string          // Set for file-sourced evidence
	URL        string          // Set for URL-sourced evidence
	FetchMeta  *model.FetchMeta // Set for URL-sourced evidence
}

// Build assembles the report artifact for one analyzed document with a fresh
// run id and UTC timestamp
func Build(src Source, mappings []model.EvidenceMapping, sc model.Score) *model.Report {
	return &model.Report{
		RunID:       uuid.New().String(),
		Subject:     src.Subject,
		Accreditor:  src.Accreditor,
		SourcePath:  src.Path,
		SourceURL:   src.URL,
		GeneratedAt: time.Now().UTC(),
		FetchMeta:   src.FetchMeta,
		Mappings:    mappings,
		Score:       sc,
		Method:      model.DefaultMethod(),
	}
}
