package fleet

import (
	"fmt"
	"strings"

	"github.com/FleetLink/FleetLink/internal/entity"
	"github.com/FleetLink/FleetLink/internal/errs"
)

// 入参形状校验放在服务层，与仓储层的不变式检查（唯一性、引用存在性）分开。

func validateCompany(c *entity.Company) error {
	if c == nil {
		return fmt.Errorf("company is nil: %w", errs.ErrValidation)
	}
	if c.CompanyID <= 0 {
		return fmt.Errorf("company_id must be positive: %w", errs.ErrValidation)
	}
	if name := strings.TrimSpace(c.CompanyName); name == "" || len(name) > 80 {
		return fmt.Errorf("company_name required, at most 80 chars: %w", errs.ErrValidation)
	}
	return nil
}

func validateDriver(d *entity.Driver) error {
	if d == nil {
		return fmt.Errorf("driver is nil: %w", errs.ErrValidation)
	}
	if name := strings.TrimSpace(d.Name); name == "" || len(name) > 50 {
		return fmt.Errorf("driver name required, at most 50 chars: %w", errs.ErrValidation)
	}
	if d.CompanyID <= 0 {
		return fmt.Errorf("company_id must be positive: %w", errs.ErrValidation)
	}
	return nil
}

func validateVehicle(v *entity.Vehicle) error {
	if v == nil {
		return fmt.Errorf("vehicle is nil: %w", errs.ErrValidation)
	}
	if model := strings.TrimSpace(v.Model); model == "" || len(model) > 80 {
		return fmt.Errorf("vehicle model required, at most 80 chars: %w", errs.ErrValidation)
	}
	if num := strings.TrimSpace(v.GovernmentNumber); num == "" || len(num) > 9 {
		return fmt.Errorf("government_number required, at most 9 chars: %w", errs.ErrValidation)
	}
	// 没有司机时必须直接给出公司
	if v.DriverID == nil && v.CompanyID <= 0 {
		return fmt.Errorf("company_id must be positive when no driver is assigned: %w", errs.ErrValidation)
	}
	return nil
}

func validateUser(u *entity.User) error {
	if u == nil {
		return fmt.Errorf("user is nil: %w", errs.ErrValidation)
	}
	if login := strings.TrimSpace(u.Login); login == "" || len(login) > 64 {
		return fmt.Errorf("login required, at most 64 chars: %w", errs.ErrValidation)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("unknown role %q: %w", u.Role, errs.ErrValidation)
	}
	return nil
}
