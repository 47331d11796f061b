package company

import (
	"context"
	"fmt"
	"time"

	"github.com/FleetLink/FleetLink/internal/entity"
	"github.com/FleetLink/FleetLink/internal/errs"
	"gorm.io/gorm"
)

// Repo 公司仓储。按自然键 company_id 对外寻址。
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

// Get 返回未删除的公司及其未删除的司机与车辆。
func (r *Repo) Get(ctx context.Context, companyID int) (*entity.Company, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c entity.Company
	err := db.Where("company_id = ? AND is_deleted = ?", companyID, false).
		Preload("Drivers", "is_deleted = ?", false).
		Preload("Vehicles", "is_deleted = ?", false).
		First(&c).Error
	if err != nil {
		return nil, errs.Store(err)
	}
	return &c, nil
}

// Add 新增公司。company_id 一经占用永不复用：冲突检查不区分软删除状态。
func (r *Repo) Add(ctx context.Context, c *entity.Company) (*entity.Company, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Company{}).
			Where("company_id = ?", c.CompanyID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrConflict
		}
		return tx.Create(c).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return c, nil
}

// Update 全量替换可变字段，保留原有的代理键 ID 和 CreatedDate。
func (r *Repo) Update(ctx context.Context, c *entity.Company) (*entity.Company, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var found entity.Company
		if err := tx.Where("company_id = ? AND is_deleted = ?", c.CompanyID, false).
			First(&found).Error; err != nil {
			return err
		}
		c.ID = found.ID
		c.CreatedDate = found.CreatedDate
		c.IsDeleted = false
		c.SoftDeletedDate = nil
		return tx.Save(c).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return c, nil
}

// Delete 物理删除公司。级联物理删除其司机与车辆
// （车辆先删，避免撞上 Driver<-Vehicle 的 RESTRICT 规则）。
func (r *Repo) Delete(ctx context.Context, companyID int) (*entity.Company, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c entity.Company
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", companyID).First(&c).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", companyID).
			Delete(&entity.Vehicle{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", companyID).
			Delete(&entity.Driver{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return &c, nil
}

// GetAll 返回所有未删除的公司及其未删除的司机与车辆。
func (r *Repo) GetAll(ctx context.Context) ([]entity.Company, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var companies []entity.Company
	err := db.Where("is_deleted = ?", false).
		Preload("Drivers", "is_deleted = ?", false).
		Preload("Vehicles", "is_deleted = ?", false).
		Find(&companies).Error
	if err != nil {
		return nil, errs.Store(err)
	}
	return companies, nil
}

// Remove 软删除公司，并把该公司当前未删除的司机与车辆一并标记删除。
// 整批使用同一个时间戳，在一个事务内提交：外部不可能观察到
// 公司已删而司机/车辆仍活跃的中间状态。
func (r *Repo) Remove(ctx context.Context, companyID int) (*entity.Company, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c entity.Company
	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ? AND is_deleted = ?", companyID, false).
			First(&c).Error; err != nil {
			return err
		}
		marked := map[string]interface{}{"is_deleted": true, "soft_deleted_date": now}
		if err := tx.Model(&entity.Driver{}).
			Where("company_id = ? AND is_deleted = ?", companyID, false).
			Updates(marked).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Vehicle{}).
			Where("company_id = ? AND is_deleted = ?", companyID, false).
			Updates(marked).Error; err != nil {
			return err
		}
		return tx.Model(&c).Updates(marked).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	c.IsDeleted = true
	c.SoftDeletedDate = &now
	return &c, nil
}
