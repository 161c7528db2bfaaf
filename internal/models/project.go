package models

// Sector groups projects.
type Sector struct {
	ID         int    `json:"id"`
	SectorName string `json:"sector_name"`
}

// Project is a catalog entry. Sector is populated on reads that join sectors.
type Project struct {
	ID                int     `json:"id"`
	Title             string  `json:"title"`
	FeatureImgURL     string  `json:"feature_img_url"`
	SummaryShort      string  `json:"summary_short"`
	IntroShort        string  `json:"intro_short"`
	Impact            string  `json:"impact"`
	OriginalSourceURL string  `json:"original_source_url"`
	SectorID          int     `json:"sector_id"`
	Sector            *Sector `json:"sector,omitempty"`
}
