package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RegionGlobal = "global" // 모든 시장에 적용

	MinKeywordPriority     = 1
	MaxKeywordPriority     = 5
	DefaultKeywordPriority = 3
)

// KeywordRule assigns CategoryID to businesses whose name or description contains Keyword.
type KeywordRule struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CategoryID uint           `gorm:"not null;index" json:"category_id"`
	Category   Category       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"category,omitempty"`
	Keyword    string         `gorm:"type:varchar(100);not null" json:"keyword"`             // 대소문자 무시 부분 문자열
	Region     string         `gorm:"type:varchar(20);default:'global';index" json:"region"` // "global" 또는 시장 코드 (예: "eg")
	Priority   int            `gorm:"default:3" json:"priority"`                             // 1~5, 높을수록 구체적
	IsActive   bool           `gorm:"index" json:"is_active"`
	CreatedBy  string         `gorm:"type:varchar(50)" json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (KeywordRule) TableName() string {
	return "keyword_rules"
}
