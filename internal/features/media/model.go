package media

// PhotoResponse is the reference a client passes back in report and resolution payloads
type PhotoResponse struct {
	URI      string `json:"uri"`
	PublicID string `json:"publicId"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Format   string `json:"format,omitempty"`
}

type DeleteResponse struct {
	PublicID string `json:"publicId"`
	Deleted  bool   `json:"deleted"`
}
