package middleware

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// mediaPath 附件路径校验：允许 http(s) URL 或 /uploads 下的本地路径
func mediaPath(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return true
	}
	return strings.HasPrefix(path, "/uploads/")
}

// RegisterValidators 注册自定义校验规则，启动时调用一次
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		log.Println("[校验] 无法获取validator实例，跳过自定义规则注册")
		return
	}

	if err := v.RegisterValidation("mediapath", mediaPath); err != nil {
		log.Printf("[校验] 注册mediapath规则失败: %v", err)
	}
}
