package dto

// RenderReportRequest body para POST /api/reports/render.
type RenderReportRequest struct {
	ReportName string   `json:"report_name"`
	ResIDs     []string `json:"res_ids"`
}
