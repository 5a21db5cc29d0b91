package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey 唯一约束冲突：写入的数据与已有记录的唯一键重复
var ErrDuplicateKey = errors.New("唯一约束冲突")

// uniqueViolation PostgreSQL unique_violation 错误码
const uniqueViolation = "23505"

// IsDuplicateKey 判断数据库错误是否为唯一约束冲突
// 同时兼容 GORM TranslateError 翻译后的错误与原始 pgconn 错误
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// TranslateDuplicate 将唯一约束冲突统一转换为 ErrDuplicateKey，其余错误原样返回
func TranslateDuplicate(err error) error {
	if IsDuplicateKey(err) {
		return ErrDuplicateKey
	}
	return err
}
