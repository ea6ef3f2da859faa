package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ProcessStatementResponse is the final response structure. PDFContent
// holds the filled K4 form, base64 encoded.
type ProcessStatementResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	PDFContent string `json:"pdf_content"`
}
