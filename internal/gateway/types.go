package gateway

// ScanResult holds the fields the recognition service extracted from a
// document image.
type ScanResult struct {
	ID              int    `json:"id"`
	FormattedTop    string `json:"formatted_top"`
	FormattedBottom string `json:"formatted_bottom"`
	Category        string `json:"category"`
	Status          string `json:"status"`
	Message         string `json:"message"`
}

// LotRecord is one batch in the operator's catalog against which a recognized
// document can be verified.
type LotRecord struct {
	Category       string `json:"category"`
	TopText        string `json:"top_text"`
	BottomText     string `json:"bottom_text"`
	IsVerified     bool   `json:"is_verified"`
	DocumentNumber string `json:"document_number"`
	IssuedDate     string `json:"issued_date"`
}

// verifyRequest is the verification endpoint's JSON body.
type verifyRequest struct {
	OCRResultID  int    `json:"ocr_result_id"`
	CategoryName string `json:"category_name"`
}
