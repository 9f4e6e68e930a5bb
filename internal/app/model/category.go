package model

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Category groups businesses; each business is linked to at most one by the categorizer.
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 대표 이름 (예: "Restaurants")
	LocalName string         `gorm:"type:varchar(100)" json:"local_name"`                // 현지어 이름 (예: "مطاعم")
	Aliases   pq.StringArray `gorm:"type:text[]" json:"aliases"`                         // 검색용 별칭
	Icon      string         `gorm:"type:varchar(50)" json:"icon"`
	Color     string         `gorm:"type:varchar(20)" json:"color"`
	IsActive  bool           `gorm:"index" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// Matches reports whether name refers to this category by name, local name or alias.
func (c *Category) Matches(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if strings.EqualFold(c.Name, name) || strings.EqualFold(c.LocalName, name) {
		return true
	}
	for _, alias := range c.Aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// BusinessCategory represents the many-to-many link between businesses and categories
type BusinessCategory struct {
	BusinessID uint      `gorm:"primaryKey;index" json:"business_id"`
	CategoryID uint      `gorm:"primaryKey;index" json:"category_id"`
	Business   Business  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Category   Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"category,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (BusinessCategory) TableName() string {
	return "business_categories"
}
