package moderation_service

import (
	"log"
	"strconv"

	"civic-go-admin/model/admin_model"

	"gorm.io/gorm"
)

// 审核配置默认值，配置表缺失时兜底
const (
	DefaultAutoApproveThreshold  = 80.0 // 自动通过阈值
	DefaultAutoRejectThreshold   = 90.0 // 自动拒绝阈值（恶意内容）
	DefaultManualReviewThreshold = 60.0 // 人工审核阈值
	DefaultOpenAIModel           = "gpt-4o-mini"
)

// 配置键
const (
	ConfigKeyAutoApproveThreshold   = "auto_approve_threshold"
	ConfigKeyAutoRejectThreshold    = "auto_reject_threshold"
	ConfigKeyManualReviewThreshold  = "manual_review_threshold"
	ConfigKeyEnableCategoryKeywords = "enable_category_keywords"
	ConfigKeyOpenAIModel            = "openai_model"
)

// ConfigStore 审核运行时配置读取接口，流水线只读不写
type ConfigStore interface {
	Get(key string, defaultValue string) string
}

// Thresholds 单次审核使用的配置快照，流水线启动时读取一次
type Thresholds struct {
	AutoApprove            float64
	AutoReject             float64
	ManualReview           float64
	EnableCategoryKeywords bool
	Model                  string
}

// LoadThresholds 从配置存储读取阈值快照
func LoadThresholds(store ConfigStore) Thresholds {
	return Thresholds{
		AutoApprove:            getFloatConfig(store, ConfigKeyAutoApproveThreshold, DefaultAutoApproveThreshold),
		AutoReject:             getFloatConfig(store, ConfigKeyAutoRejectThreshold, DefaultAutoRejectThreshold),
		ManualReview:           getFloatConfig(store, ConfigKeyManualReviewThreshold, DefaultManualReviewThreshold),
		EnableCategoryKeywords: store.Get(ConfigKeyEnableCategoryKeywords, "true") == "true",
		Model:                  store.Get(ConfigKeyOpenAIModel, DefaultOpenAIModel),
	}
}

func getFloatConfig(store ConfigStore, key string, defaultValue float64) float64 {
	raw := store.Get(key, strconv.FormatFloat(defaultValue, 'f', -1, 64))
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("[审核配置] 配置 %s 的值 %q 无法解析，使用默认值 %v", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

// DBConfigStore 基于moderation_config表的配置存储
type DBConfigStore struct {
	db *gorm.DB
}

// NewDBConfigStore 创建数据库配置存储
func NewDBConfigStore(db *gorm.DB) *DBConfigStore {
	return &DBConfigStore{db: db}
}

// Get 读取配置项，查询失败或未命中时返回默认值
func (s *DBConfigStore) Get(key string, defaultValue string) string {
	var entry admin_model.ModerationConfig
	err := s.db.Where("config_key = ?", key).First(&entry).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("[审核配置] 读取配置 %s 失败: %v", key, err)
		}
		return defaultValue
	}
	return entry.ConfigValue
}
