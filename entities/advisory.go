package entities

import "time"

type AdvisoryDocument struct {
	DocID     uint      `gorm:"primaryKey" json:"doc_id"`
	Title     string    `json:"title"`
	SourceURL string    `json:"source_url"`
	Tags      string    `json:"tags"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ArticleRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
