package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/FleetLink/FleetLink/internal/entity"
	"github.com/FleetLink/FleetLink/internal/errs"
	"gorm.io/gorm"
)

// Repo 司机仓储。按代理键 ID 对外寻址。
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

// requireCompany 校验 companyID 指向一个未删除的公司。
// 软删除的公司不允许再挂新司机，与车辆仓储的口径一致。
func requireCompany(tx *gorm.DB, companyID int) error {
	var count int64
	err := tx.Model(&entity.Company{}).
		Where("company_id = ? AND is_deleted = ?", companyID, false).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Get 返回未删除的司机及其未删除的车辆。
func (r *Repo) Get(ctx context.Context, id uint) (*entity.Driver, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var d entity.Driver
	err := db.Where("id = ? AND is_deleted = ?", id, false).
		Preload("Vehicles", "is_deleted = ?", false).
		First(&d).Error
	if err != nil {
		return nil, errs.Store(err)
	}
	return &d, nil
}

// Add 新增司机，CompanyID 必须指向未删除的公司。
func (r *Repo) Add(ctx context.Context, d *entity.Driver) (*entity.Driver, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := requireCompany(tx, d.CompanyID); err != nil {
			return err
		}
		return tx.Create(d).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return d, nil
}

// Update 全量替换可变字段，保留原有 CreatedDate。
func (r *Repo) Update(ctx context.Context, d *entity.Driver) (*entity.Driver, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var found entity.Driver
		if err := tx.Where("id = ? AND is_deleted = ?", d.ID, false).
			First(&found).Error; err != nil {
			return err
		}
		if err := requireCompany(tx, d.CompanyID); err != nil {
			return err
		}
		d.CreatedDate = found.CreatedDate
		d.IsDeleted = false
		d.SoftDeletedDate = nil
		return tx.Save(d).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return d, nil
}

// Delete 物理删除司机。删除前先把指向它的车辆全部解绑（driver_id 置空），
// 保证不会出现悬空外键。
func (r *Repo) Delete(ctx context.Context, id uint) (*entity.Driver, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var d entity.Driver
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&d).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Vehicle{}).
			Where("driver_id = ?", id).
			Update("driver_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&d).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return &d, nil
}

// GetAll 返回所有未删除的司机及其未删除的车辆。
func (r *Repo) GetAll(ctx context.Context) ([]entity.Driver, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var drivers []entity.Driver
	err := db.Where("is_deleted = ?", false).
		Preload("Vehicles", "is_deleted = ?", false).
		Find(&drivers).Error
	if err != nil {
		return nil, errs.Store(err)
	}
	return drivers, nil
}

// Remove 软删除司机。车辆只解绑不删除（对比公司级联：公司软删会连带车辆）。
func (r *Repo) Remove(ctx context.Context, id uint) (*entity.Driver, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var d entity.Driver
	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = ?", id, false).
			First(&d).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Vehicle{}).
			Where("driver_id = ? AND is_deleted = ?", id, false).
			Update("driver_id", nil).Error; err != nil {
			return err
		}
		return tx.Model(&d).
			Updates(map[string]interface{}{"is_deleted": true, "soft_deleted_date": now}).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	d.IsDeleted = true
	d.SoftDeletedDate = &now
	return &d, nil
}
