package dataset

// LabeledDocument is one ground-truth entry in an evaluation dataset: a
// document image on disk plus the fields a correct recognition should
// extract.
type LabeledDocument struct {
	ImagePath      string `parquet:"image_path" json:"image_path"`
	Category       string `parquet:"category" json:"category"`
	TopText        string `parquet:"top_text" json:"top_text"`
	BottomText     string `parquet:"bottom_text" json:"bottom_text"`
	DocumentNumber string `parquet:"document_number" json:"document_number"`
}

// Identifier returns the best stable label for reporting.
func (d LabeledDocument) Identifier() string {
	if d.DocumentNumber != "" {
		return d.DocumentNumber
	}
	return d.ImagePath
}
