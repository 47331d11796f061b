package user

import (
	"context"
	"fmt"
	"time"

	"github.com/FleetLink/FleetLink/internal/entity"
	"github.com/FleetLink/FleetLink/internal/errs"
	"gorm.io/gorm"
)

// Repo 用户仓储。按登录名对外寻址，登录名比较不区分大小写。
// 统一用 LOWER() 比较而不依赖列的 collation，便于在不同存储后端之间迁移。
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

// GetByLogin 返回未删除的用户。
func (r *Repo) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var u entity.User
	err := db.Where("LOWER(login) = LOWER(?) AND is_deleted = ?", login, false).
		First(&u).Error
	if err != nil {
		return nil, errs.Store(err)
	}
	return &u, nil
}

// Add 新增用户。登录名冲突检查不区分大小写，也不区分软删除状态。
func (r *Repo) Add(ctx context.Context, u *entity.User) (*entity.User, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.User{}).
			Where("LOWER(login) = LOWER(?)", u.Login).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrConflict
		}
		return tx.Create(u).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return u, nil
}

// Update 按登录名定位用户并全量替换，保留原有代理键 ID 和 CreatedDate。
func (r *Repo) Update(ctx context.Context, u *entity.User) (*entity.User, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var found entity.User
		if err := tx.Where("LOWER(login) = LOWER(?)", u.Login).
			First(&found).Error; err != nil {
			return err
		}
		u.ID = found.ID
		u.CreatedDate = found.CreatedDate
		u.IsDeleted = found.IsDeleted
		u.SoftDeletedDate = found.SoftDeletedDate
		return tx.Save(u).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return u, nil
}

// Delete 按登录名物理删除用户。
func (r *Repo) Delete(ctx context.Context, login string) (*entity.User, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var u entity.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("LOWER(login) = LOWER(?)", login).
			First(&u).Error; err != nil {
			return err
		}
		return tx.Delete(&u).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return &u, nil
}

// GetAll 返回所有未删除的用户。
func (r *Repo) GetAll(ctx context.Context) ([]entity.User, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var users []entity.User
	if err := db.Where("is_deleted = ?", false).Find(&users).Error; err != nil {
		return nil, errs.Store(err)
	}
	return users, nil
}

// Remove 按登录名软删除用户。
func (r *Repo) Remove(ctx context.Context, login string) (*entity.User, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var u entity.User
	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("LOWER(login) = LOWER(?) AND is_deleted = ?", login, false).
			First(&u).Error; err != nil {
			return err
		}
		return tx.Model(&u).
			Updates(map[string]interface{}{"is_deleted": true, "soft_deleted_date": now}).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	u.IsDeleted = true
	u.SoftDeletedDate = &now
	return &u, nil
}
