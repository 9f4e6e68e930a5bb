package discovery

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
	"github.com/ikkim/bizdir-backend/internal/app/model"
)

// Resolution is the outcome of categorizing one business.
type Resolution struct {
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	Keyword      string `json:"keyword,omitempty"`
	RuleID       uint   `json:"rule_id,omitempty"`
	Fallback     bool   `json:"fallback"`
}

type rule struct {
	id         uint
	categoryID uint
	keyword    string
	length     int
	priority   int
}

// RuleSet is an immutable, compiled view of the active keyword rules.
type RuleSet struct {
	categories   map[uint]model.Category
	fallback     *model.Category
	fallbackName string

	keywords []string
	rules    [][]rule // indexed like keywords

	// ahocorasick.Matcher mutates match counters, so Match calls are serialized.
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
}

// NewRuleSet compiles rules against the active categories. Inactive rules, blank keywords and
// rules pointing at unknown or inactive categories are dropped.
func NewRuleSet(categories []model.Category, rules []model.KeywordRule, fallbackName string) *RuleSet {
	rs := &RuleSet{
		categories:   make(map[uint]model.Category, len(categories)),
		fallbackName: strings.TrimSpace(fallbackName),
	}

	for _, c := range categories {
		if !c.IsActive {
			continue
		}
		rs.categories[c.ID] = c
	}
	for id, c := range rs.categories {
		if rs.fallbackName != "" && strings.EqualFold(c.Name, rs.fallbackName) {
			if rs.fallback == nil || id < rs.fallback.ID {
				fallback := c
				rs.fallback = &fallback
			}
		}
	}

	index := make(map[string]int)
	for _, r := range rules {
		keyword := strings.ToLower(strings.TrimSpace(r.Keyword))
		if !r.IsActive || keyword == "" {
			continue
		}
		if _, ok := rs.categories[r.CategoryID]; !ok {
			continue
		}
		i, ok := index[keyword]
		if !ok {
			i = len(rs.keywords)
			index[keyword] = i
			rs.keywords = append(rs.keywords, keyword)
			rs.rules = append(rs.rules, nil)
		}
		rs.rules[i] = append(rs.rules[i], rule{
			id:         r.ID,
			categoryID: r.CategoryID,
			keyword:    keyword,
			length:     utf8.RuneCountInString(keyword),
			priority:   r.Priority,
		})
	}

	if len(rs.keywords) > 0 {
		rs.matcher = ahocorasick.NewStringMatcher(rs.keywords)
	}
	return rs
}

// Len returns the number of compiled rules.
func (rs *RuleSet) Len() int {
	n := 0
	for _, group := range rs.rules {
		n += len(group)
	}
	return n
}

// Categories returns the active categories ordered by id.
func (rs *RuleSet) Categories() []model.Category {
	out := make([]model.Category, 0, len(rs.categories))
	for _, c := range rs.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resolve picks the category for text (already lower-cased business name + description).
//
// The longest matching keyword wins. Equal lengths are decided by higher priority, then the
// smaller category id, then the smaller rule id. Without a match the fallback category is
// returned; a ConfigurationError is returned only when that fallback does not exist.
func (rs *RuleSet) Resolve(text string) (Resolution, error) {
	if best, ok := rs.bestMatch(strings.ToLower(text)); ok {
		return Resolution{
			CategoryID:   best.categoryID,
			CategoryName: rs.categories[best.categoryID].Name,
			Keyword:      best.keyword,
			RuleID:       best.id,
		}, nil
	}

	if rs.fallback == nil {
		if rs.fallbackName == "" {
			return Resolution{}, &ConfigurationError{Reason: "no default category configured"}
		}
		return Resolution{}, &ConfigurationError{Reason: "default category " + rs.fallbackName + " does not exist or is inactive"}
	}
	return Resolution{
		CategoryID:   rs.fallback.ID,
		CategoryName: rs.fallback.Name,
		Fallback:     true,
	}, nil
}

// Resolve is the free-function form of RuleSet.Resolve.
func Resolve(text string, rs *RuleSet) (Resolution, error) {
	return rs.Resolve(text)
}

func (rs *RuleSet) bestMatch(text string) (rule, bool) {
	if rs.matcher == nil || text == "" {
		return rule{}, false
	}

	rs.mu.Lock()
	hits := rs.matcher.Match([]byte(text))
	rs.mu.Unlock()

	var best rule
	found := false
	for _, hit := range hits {
		for _, candidate := range rs.rules[hit] {
			if !found || outranks(candidate, best) {
				best = candidate
				found = true
			}
		}
	}
	return best, found
}

func outranks(a, b rule) bool {
	if a.length != b.length {
		return a.length > b.length
	}
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	if a.categoryID != b.categoryID {
		return a.categoryID < b.categoryID
	}
	return a.id < b.id
}
