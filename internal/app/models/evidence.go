package models

import "io"

type EvidenceItem struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	URL        string `json:"url,omitempty"`
	FilePath   string `json:"file_path,omitempty"`
	Label      string `json:"label"`
}

// EvidenceFile is one file of an upload batch.
type EvidenceFile struct {
	FileName    string
	ContentType string
	Content     io.Reader
}
