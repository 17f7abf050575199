package moderation_service

import (
	"context"
	"log"
	"sort"
	"strings"
)

// KeywordCategoryClassifier 基于关键字权重的分类器
type KeywordCategoryClassifier struct {
	rules RuleRepository
}

// NewKeywordCategoryClassifier 创建关键字分类器
func NewKeywordCategoryClassifier(rules RuleRepository) *KeywordCategoryClassifier {
	return &KeywordCategoryClassifier{rules: rules}
}

// Classify 对文本按分类关键字计分
// 每个分类得分 = Σ(权重 × 关键字出现次数)，取最高分的分类。
// 无任何命中时返回 (nil, 0, "")。返回的信心度为0-100，
// 关键字属于弱信号，映射上限低于自动通过阈值。
func (c *KeywordCategoryClassifier) Classify(ctx context.Context, text string) (*int, float64, string) {
	categoryKeywords, err := c.rules.ActiveCategoryKeywords(ctx)
	if err != nil {
		log.Printf("[关键字分类] 加载分类关键字失败，跳过关键字分类: %v", err)
		return nil, 0.0, ""
	}

	if len(categoryKeywords) == 0 {
		return nil, 0.0, ""
	}

	// 按分类ID升序遍历，保证结果确定
	catIDs := make([]int, 0, len(categoryKeywords))
	for catID := range categoryKeywords {
		catIDs = append(catIDs, catID)
	}
	sort.Ints(catIDs)

	bestCatID := 0
	bestScore := 0.0
	matchedByCat := map[int]string{}

	for _, catID := range catIDs {
		score := 0.0
		var matches []string

		for _, kw := range categoryKeywords[catID] {
			count := strings.Count(text, kw.Keyword)
			if count > 0 {
				score += kw.Weight * float64(count)
				matches = append(matches, kw.Keyword)
			}
		}

		if score > 0 {
			matchedByCat[catID] = strings.Join(matches, ", ")
			// 严格大于，同分时保留先出现的分类
			if score > bestScore {
				bestScore = score
				bestCatID = catID
			}
		}
	}

	if bestScore <= 0 {
		return nil, 0.0, ""
	}

	confidence := mapKeywordConfidence(bestScore)
	catID := bestCatID
	return &catID, confidence, matchedByCat[bestCatID]
}

// mapKeywordConfidence 将原始得分映射为信心度
// 关键字密度只是弱信号，各档上限均低于默认自动通过阈值。
func mapKeywordConfidence(score float64) float64 {
	switch {
	case score >= 5:
		return minFloat(85.0, 60.0+score*5)
	case score >= 3:
		return minFloat(75.0, 50.0+score*8)
	default:
		return minFloat(60.0, 30.0+score*10)
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
