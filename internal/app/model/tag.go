package model

// Tag is a read-only catalogue entry recipes are labelled with.
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
	Slug string `gorm:"type:varchar(32);uniqueIndex;not null" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}
