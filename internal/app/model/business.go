package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type BusinessStatus string // 업체 상태

const (
	BusinessStatusActive    BusinessStatus = "active"    // 노출 중
	BusinessStatusPending   BusinessStatus = "pending"   // 승인 대기
	BusinessStatusSuspended BusinessStatus = "suspended" // 정지
	BusinessStatusInactive  BusinessStatus = "inactive"  // 비활성
)

// UnknownPriceTier is the tier assumed for businesses without a price tier.
const UnknownPriceTier = 2

func (s BusinessStatus) Valid() bool {
	switch s {
	case BusinessStatusActive, BusinessStatusPending, BusinessStatusSuspended, BusinessStatusInactive:
		return true
	}
	return false
}

type Business struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                   // 업체 ID
	Name        string         `gorm:"not null;index" json:"name"`                             // 상호명
	Description string         `gorm:"type:text" json:"description"`                           // 소개
	PhoneNumber string         `gorm:"type:varchar(30)" json:"phone_number"`                   // 연락처
	Address     string         `gorm:"type:text" json:"address"`                               // 주소 (지역 필터 대상)
	Rating      *float64       `gorm:"type:decimal(3,2)" json:"rating"`                        // 평점 0~5 (nullable)
	PriceTier   *int           `json:"price_tier"`                                             // 가격대 1~4 (nullable)
	ReviewCount int            `gorm:"default:0" json:"review_count"`                          // 리뷰 수
	Status      BusinessStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"` // 상태
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                // 생성 시각
	UpdatedAt   time.Time      `json:"updated_at"`                                             // 수정 시각
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                         // 삭제 시각(소프트 삭제)

	Categories []Category `gorm:"many2many:business_categories;" json:"categories,omitempty"`
}

func (Business) TableName() string {
	return "businesses"
}

// CategorizationText is the lower-cased text keyword rules are matched against.
func (b *Business) CategorizationText() string {
	return strings.ToLower(b.Name + " " + b.Description)
}

// RatingValue treats a missing rating as 0.
func (b *Business) RatingValue() float64 {
	if b.Rating == nil {
		return 0
	}
	return *b.Rating
}

// PriceTierValue treats a missing price tier as UnknownPriceTier.
func (b *Business) PriceTierValue() int {
	if b.PriceTier == nil {
		return UnknownPriceTier
	}
	return *b.PriceTier
}

// IsActive reports whether the business may appear in search results.
func (b *Business) IsActive() bool {
	return b.Status == BusinessStatusActive
}
