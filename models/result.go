package models

// Result is a published exam outcome. ImageKey is the blob-storage key of the
// attached image; reads hand back a signed URL instead of the key.
type Result struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Score    int    `gorm:"not null" json:"score"`
	Career   string `gorm:"size:100" json:"career"`
	Order    int    `gorm:"column:display_order;not null;default:0" json:"order"`
	ImageKey string `gorm:"size:512" json:"-"`
}
