// Package fleet 是薄编排层：校验入参形状、调用仓储、记录操作日志。
// 跨实体不变式（唯一性、引用存在性、级联）都在仓储层内完成。
package fleet

import (
	"context"

	"github.com/FleetLink/FleetLink/internal/common/logger"
	"github.com/FleetLink/FleetLink/internal/company"
	"github.com/FleetLink/FleetLink/internal/driver"
	"github.com/FleetLink/FleetLink/internal/entity"
	"github.com/FleetLink/FleetLink/internal/user"
	"github.com/FleetLink/FleetLink/internal/vehicle"
)

type Service struct {
	companies *company.Repo
	drivers   *driver.Repo
	vehicles  *vehicle.Repo
	users     *user.Repo
	log       logger.Logger
}

func NewService(companies *company.Repo, drivers *driver.Repo, vehicles *vehicle.Repo, users *user.Repo, log logger.Logger) *Service {
	return &Service{
		companies: companies,
		drivers:   drivers,
		vehicles:  vehicles,
		users:     users,
		log:       log,
	}
}

// ---- companies ----

func (s *Service) GetCompany(ctx context.Context, companyID int) (*entity.Company, error) {
	return s.companies.Get(ctx, companyID)
}

func (s *Service) GetAllCompanies(ctx context.Context) ([]entity.Company, error) {
	return s.companies.GetAll(ctx)
}

func (s *Service) AddCompany(ctx context.Context, c *entity.Company) (*entity.Company, error) {
	if err := validateCompany(c); err != nil {
		return nil, err
	}
	added, err := s.companies.Add(ctx, c)
	if err != nil {
		return nil, err
	}
	s.log.WithField("company_id", added.CompanyID).Info("company added")
	return added, nil
}

func (s *Service) UpdateCompany(ctx context.Context, c *entity.Company) (*entity.Company, error) {
	if err := validateCompany(c); err != nil {
		return nil, err
	}
	upd, err := s.companies.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	s.log.WithField("company_id", upd.CompanyID).Info("company updated")
	return upd, nil
}

func (s *Service) DeleteCompany(ctx context.Context, companyID int) (*entity.Company, error) {
	del, err := s.companies.Delete(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.log.WithField("company_id", companyID).Warn("company hard-deleted with drivers and vehicles")
	return del, nil
}

func (s *Service) RemoveCompany(ctx context.Context, companyID int) (*entity.Company, error) {
	rem, err := s.companies.Remove(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.log.WithField("company_id", companyID).Info("company soft-deleted, cascade applied")
	return rem, nil
}

// ---- drivers ----

func (s *Service) GetDriver(ctx context.Context, id uint) (*entity.Driver, error) {
	return s.drivers.Get(ctx, id)
}

func (s *Service) GetAllDrivers(ctx context.Context) ([]entity.Driver, error) {
	return s.drivers.GetAll(ctx)
}

func (s *Service) AddDriver(ctx context.Context, d *entity.Driver) (*entity.Driver, error) {
	if err := validateDriver(d); err != nil {
		return nil, err
	}
	added, err := s.drivers.Add(ctx, d)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(map[string]interface{}{"driver_id": added.ID, "company_id": added.CompanyID}).
		Info("driver added")
	return added, nil
}

func (s *Service) UpdateDriver(ctx context.Context, d *entity.Driver) (*entity.Driver, error) {
	if err := validateDriver(d); err != nil {
		return nil, err
	}
	upd, err := s.drivers.Update(ctx, d)
	if err != nil {
		return nil, err
	}
	s.log.WithField("driver_id", upd.ID).Info("driver updated")
	return upd, nil
}

func (s *Service) DeleteDriver(ctx context.Context, id uint) (*entity.Driver, error) {
	del, err := s.drivers.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.WithField("driver_id", id).Warn("driver hard-deleted, vehicles unlinked")
	return del, nil
}

func (s *Service) RemoveDriver(ctx context.Context, id uint) (*entity.Driver, error) {
	rem, err := s.drivers.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.WithField("driver_id", id).Info("driver soft-deleted, vehicles unlinked")
	return rem, nil
}

// ---- vehicles ----

func (s *Service) GetVehicle(ctx context.Context, id uint) (*entity.Vehicle, error) {
	return s.vehicles.Get(ctx, id)
}

func (s *Service) GetAllVehicles(ctx context.Context) ([]entity.Vehicle, error) {
	return s.vehicles.GetAll(ctx)
}

func (s *Service) AddVehicle(ctx context.Context, v *entity.Vehicle) (*entity.Vehicle, error) {
	if err := validateVehicle(v); err != nil {
		return nil, err
	}
	added, err := s.vehicles.Add(ctx, v)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(map[string]interface{}{
		"vehicle_id": added.ID,
		"gov_number": added.GovernmentNumber,
		"company_id": added.CompanyID,
	}).Info("vehicle added")
	return added, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, v *entity.Vehicle) (*entity.Vehicle, error) {
	if err := validateVehicle(v); err != nil {
		return nil, err
	}
	upd, err := s.vehicles.Update(ctx, v)
	if err != nil {
		return nil, err
	}
	s.log.WithField("vehicle_id", upd.ID).Info("vehicle updated")
	return upd, nil
}

func (s *Service) DeleteVehicle(ctx context.Context, id uint) (*entity.Vehicle, error) {
	del, err := s.vehicles.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.WithField("vehicle_id", id).Warn("vehicle hard-deleted")
	return del, nil
}

func (s *Service) RemoveVehicle(ctx context.Context, id uint) (*entity.Vehicle, error) {
	rem, err := s.vehicles.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.WithField("vehicle_id", id).Info("vehicle soft-deleted")
	return rem, nil
}

// ---- users ----

func (s *Service) GetUserByLogin(ctx context.Context, login string) (*entity.User, error) {
	return s.users.GetByLogin(ctx, login)
}

func (s *Service) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	return s.users.GetAll(ctx)
}

func (s *Service) UpdateUser(ctx context.Context, u *entity.User) (*entity.User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}
	upd, err := s.users.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	s.log.WithField("login", upd.Login).Info("user updated")
	return upd, nil
}

func (s *Service) DeleteUser(ctx context.Context, login string) (*entity.User, error) {
	del, err := s.users.Delete(ctx, login)
	if err != nil {
		return nil, err
	}
	s.log.WithField("login", login).Warn("user hard-deleted")
	return del, nil
}

func (s *Service) RemoveUser(ctx context.Context, login string) (*entity.User, error) {
	rem, err := s.users.Remove(ctx, login)
	if err != nil {
		return nil, err
	}
	s.log.WithField("login", login).Info("user soft-deleted")
	return rem, nil
}
