package moderation_service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"civic-go-admin/model/admin_model"
	"civic-go-admin/model/app_model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 规则缓存键与有效期，规则属于弱一致数据，短暂过期可接受
const (
	sensitiveWordsCacheKey   = "moderation:sensitive_words"
	categoryKeywordsCacheKey = "moderation:category_keywords"
	ruleCacheTTL             = 5 * time.Minute
)

// RuleRepository 审核规则数据访问接口
type RuleRepository interface {
	// ActiveSensitiveWords 返回所有启用的敏感词规则
	ActiveSensitiveWords(ctx context.Context) ([]admin_model.SensitiveWord, error)
	// ActiveCategoryKeywords 返回按分类分组的启用关键字规则
	ActiveCategoryKeywords(ctx context.Context) (map[int][]admin_model.CategoryKeyword, error)
	// TopLevelCategories 返回所有顶级分类
	TopLevelCategories(ctx context.Context) ([]app_model.Category, error)
}

// GormRuleRepository 基于gorm的规则仓库，敏感词与关键字走redis读穿缓存
type GormRuleRepository struct {
	db  *gorm.DB
	rdb *redis.Client // 可为 nil，降级为直查数据库
}

// NewGormRuleRepository 创建规则仓库
func NewGormRuleRepository(db *gorm.DB, rdb *redis.Client) *GormRuleRepository {
	return &GormRuleRepository{db: db, rdb: rdb}
}

// ActiveSensitiveWords 查询启用的敏感词规则
func (r *GormRuleRepository) ActiveSensitiveWords(ctx context.Context) ([]admin_model.SensitiveWord, error) {
	var words []admin_model.SensitiveWord
	if r.cacheGet(ctx, sensitiveWordsCacheKey, &words) {
		return words, nil
	}

	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&words).Error; err != nil {
		return nil, err
	}

	r.cacheSet(ctx, sensitiveWordsCacheKey, words)
	return words, nil
}

// ActiveCategoryKeywords 查询启用的分类关键字，按分类ID分组
func (r *GormRuleRepository) ActiveCategoryKeywords(ctx context.Context) (map[int][]admin_model.CategoryKeyword, error) {
	var keywords []admin_model.CategoryKeyword
	if !r.cacheGet(ctx, categoryKeywordsCacheKey, &keywords) {
		err := r.db.WithContext(ctx).
			Where("is_active = ?", true).
			Order("category_id, weight DESC").
			Find(&keywords).Error
		if err != nil {
			return nil, err
		}
		r.cacheSet(ctx, categoryKeywordsCacheKey, keywords)
	}

	grouped := make(map[int][]admin_model.CategoryKeyword)
	for _, kw := range keywords {
		grouped[kw.CategoryID] = append(grouped[kw.CategoryID], kw)
	}
	return grouped, nil
}

// TopLevelCategories 查询顶级分类（parent_id 为空）
func (r *GormRuleRepository) TopLevelCategories(ctx context.Context) ([]app_model.Category, error) {
	var categories []app_model.Category
	err := r.db.WithContext(ctx).Where("parent_id IS NULL").Order("id").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// RefreshCache 清除规则缓存，管理端修改规则后调用
func (r *GormRuleRepository) RefreshCache(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, sensitiveWordsCacheKey, categoryKeywordsCacheKey).Err(); err != nil {
		log.Printf("[审核规则] 清除规则缓存失败: %v", err)
	}
}

func (r *GormRuleRepository) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if r.rdb == nil {
		return false
	}
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[审核规则] 读取缓存 %s 失败: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("[审核规则] 解析缓存 %s 失败: %v", key, err)
		return false
	}
	return true
}

func (r *GormRuleRepository) cacheSet(ctx context.Context, key string, value interface{}) {
	if r.rdb == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, data, ruleCacheTTL).Err(); err != nil {
		log.Printf("[审核规则] 写入缓存 %s 失败: %v", key, err)
	}
}
