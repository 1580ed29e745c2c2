package models

// UncategorizedName is the reserved category that adopts the questions and
// subcategories of any deleted category.
const UncategorizedName = "Uncategorized"

type Category struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string     `gorm:"size:100;unique;not null" json:"name"`
	SuperCategoryID *uint      `json:"super_category_id"`
	SuperCategory   *Category  `gorm:"foreignKey:SuperCategoryID" json:"super_category,omitempty"`
	Questions       []Question `gorm:"foreignKey:CategoryID" json:"-"`
}
