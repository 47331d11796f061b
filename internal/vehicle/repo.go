package vehicle

import (
	"context"
	"fmt"
	"time"

	"github.com/FleetLink/FleetLink/internal/entity"
	"github.com/FleetLink/FleetLink/internal/errs"
	"gorm.io/gorm"
)

// Repo 车辆仓储。
//
// 核心规则：绑定了司机的车辆，其 CompanyID 一律从司机派生，
// 调用方传入的 CompanyID 会被覆盖。由此保证车辆/司机/公司三者
// 的归属永远一致，不存在“车在 A 公司、司机在 B 公司”的状态。
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

// normalizeDriverID 把哨兵值 0 归一化为未绑定。
func normalizeDriverID(v *entity.Vehicle) {
	if v.DriverID != nil && *v.DriverID == 0 {
		v.DriverID = nil
	}
}

// resolveOwnership 校验归属并在绑定司机时覆盖 CompanyID。
// 无司机：CompanyID 必须指向未删除的公司；
// 有司机：司机必须存在且未删除，CompanyID 取司机的 CompanyID。
func resolveOwnership(tx *gorm.DB, v *entity.Vehicle) error {
	if v.DriverID == nil {
		var count int64
		err := tx.Model(&entity.Company{}).
			Where("company_id = ? AND is_deleted = ?", v.CompanyID, false).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return errs.ErrNotFound
		}
		return nil
	}

	var d entity.Driver
	err := tx.Where("id = ? AND is_deleted = ?", *v.DriverID, false).First(&d).Error
	if err != nil {
		return err
	}
	v.CompanyID = d.CompanyID
	return nil
}

// Get 返回未删除的车辆。
func (r *Repo) Get(ctx context.Context, id uint) (*entity.Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v entity.Vehicle
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&v).Error
	if err != nil {
		return nil, errs.Store(err)
	}
	return &v, nil
}

// Add 新增车辆。
// 政府牌照号全表唯一，冲突检查不区分软删除状态：号码一经占用永久下线。
func (r *Repo) Add(ctx context.Context, v *entity.Vehicle) (*entity.Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Vehicle{}).
			Where("government_number = ?", v.GovernmentNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrConflict
		}
		normalizeDriverID(v)
		if err := resolveOwnership(tx, v); err != nil {
			return err
		}
		return tx.Create(v).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return v, nil
}

// Update 与 Add 做同样的归属校验，另外：
// 牌照号冲突检查要排除自身行（原号不动是合法的，撞到别的行才算冲突）；
// 保留原有 CreatedDate。
func (r *Repo) Update(ctx context.Context, v *entity.Vehicle) (*entity.Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var found entity.Vehicle
		if err := tx.Where("id = ?", v.ID).First(&found).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&entity.Vehicle{}).
			Where("government_number = ? AND id <> ?", v.GovernmentNumber, v.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrConflict
		}
		normalizeDriverID(v)
		if err := resolveOwnership(tx, v); err != nil {
			return err
		}
		v.CreatedDate = found.CreatedDate
		v.IsDeleted = found.IsDeleted
		v.SoftDeletedDate = found.SoftDeletedDate
		return tx.Save(v).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return v, nil
}

// Delete 物理删除车辆。车辆是叶子实体，无需级联。
func (r *Repo) Delete(ctx context.Context, id uint) (*entity.Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v entity.Vehicle
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&v).Error; err != nil {
			return err
		}
		return tx.Delete(&v).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	return &v, nil
}

// GetAll 返回所有未删除的车辆。
func (r *Repo) GetAll(ctx context.Context) ([]entity.Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var vehicles []entity.Vehicle
	if err := db.Where("is_deleted = ?", false).Find(&vehicles).Error; err != nil {
		return nil, errs.Store(err)
	}
	return vehicles, nil
}

// Remove 软删除车辆，无进一步级联。
func (r *Repo) Remove(ctx context.Context, id uint) (*entity.Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v entity.Vehicle
	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = ?", id, false).
			First(&v).Error; err != nil {
			return err
		}
		return tx.Model(&v).
			Updates(map[string]interface{}{"is_deleted": true, "soft_deleted_date": now}).Error
	})
	if err != nil {
		return nil, errs.Store(err)
	}
	v.IsDeleted = true
	v.SoftDeletedDate = &now
	return &v, nil
}
