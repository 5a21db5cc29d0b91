package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var initOnce sync.Once

// Init 配置 Gin 绑定所用的全局校验器
//   - 错误字段名使用 json tag
//   - 注册 calendardate 别名（YYYY-MM-DD 日历日）
func Init() {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("calendardate", "datetime=2006-01-02")
	})
}

// ToDetails 将绑定/校验错误转换为 字段 -> 提示 的映射，用于响应 details
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "JSON 格式错误"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "请求体无效"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.ActualTag() {
	case "required":
		return "不能为空"
	case "email":
		return "必须是有效的邮箱地址"
	case "uuid", "uuid4":
		return "必须是有效的 UUID"
	case "url":
		return "必须是有效的 URL"
	case "min":
		if fe.Kind() == reflect.String {
			return "长度不能少于 " + param + " 个字符"
		}
		return "不能小于 " + param
	case "max":
		if fe.Kind() == reflect.String {
			return "长度不能超过 " + param + " 个字符"
		}
		return "不能大于 " + param
	case "oneof":
		return "必须是以下之一: " + strings.Join(strings.Fields(param), ", ")
	case "datetime":
		if param == "2006-01-02" {
			return "必须是 YYYY-MM-DD 格式的日期"
		}
		return "时间格式必须为 " + param
	default:
		return "校验失败: " + fe.Tag()
	}
}
