package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Document is the persisted record of an uploaded file and its last analysis.
type Document struct {
	ID          string             `json:"id"`
	Filename    string             `json:"filename"`
	MimeType    string             `json:"mime_type"`
	StoragePath string             `json:"storage_path"`
	Options     AnalysisOptions    `json:"options"`
	Status      DocumentStatus     `json:"status"`
	Error       string             `json:"error,omitempty"`
	PageMethods []ExtractionMethod `json:"page_methods,omitempty"`
	Text        string             `json:"text,omitempty"`
	Summary     string             `json:"summary,omitempty"`
	Keywords    []string           `json:"keywords,omitempty"`
	Stages      StageReport        `json:"stages"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// StageReport is the per-artifact status snapshot stored with a document.
type StageReport struct {
	Text     StageStatus `json:"text,omitempty"`
	Summary  StageStatus `json:"summary,omitempty"`
	Keywords StageStatus `json:"keywords,omitempty"`
}

// ApplyAnalysis copies the rendered artifacts of an analysis onto the record.
func (d *Document) ApplyAnalysis(a Analysis) {
	rendered := a.Render()
	d.PageMethods = a.PageMethods()
	d.Text = rendered.Text
	d.Summary = rendered.Summary
	d.Keywords = rendered.Keywords
	d.Stages = a.Report()
}
