package model

import "time"

// ReportUpload is the CSV text stored for one manager and report type.
type ReportUpload struct {
	ID         string     `json:"id"`
	Manager    string     `json:"manager"`
	ReportType ReportType `json:"report_type"`
	CSV        string     `json:"csv"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

// Snapshot is the last successfully built report for a manager and report type.
type Snapshot struct {
	Manager    string      `json:"manager"`
	ReportType ReportType  `json:"report_type"`
	Report     *CityReport `json:"report"`
	CreatedAt  time.Time   `json:"created_at"`
}
