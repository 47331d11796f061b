// Package errs 定义仓储层对外暴露的错误类型。
// 上层（service / handler）只通过 errors.Is 与这里的哨兵错误比较，
// 不感知底层 gorm / 驱动错误。
package errs

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 操作目标不存在，或已被软删除。
	ErrNotFound = errors.New("not found")
	// ErrConflict 唯一性冲突（CompanyID / GovernmentNumber / Login 重复）。
	ErrConflict = errors.New("conflict")
	// ErrValidation 入参不合法（缺字段、非法引用等）。
	ErrValidation = errors.New("validation failed")
)

// StoreError 包装无法归类的底层存储错误（连接断开、提交时约束竞争失败等）。
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store: " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// Store 把 gorm 返回的错误映射为本包的错误类型。
// 唯一索引是并发下的最终裁判：提交时撞上重复键同样归为 ErrConflict。
func Store(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict), errors.Is(err, ErrValidation):
		return err
	default:
		return &StoreError{Err: err}
	}
}
