package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/FleetLink/FleetLink/internal/entity"
	"github.com/FleetLink/FleetLink/internal/errs"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := gdb.AutoMigrate(&entity.Company{}, &entity.Driver{}, &entity.Vehicle{}, &entity.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func mustCreate(t *testing.T, gdb *gorm.DB, v interface{}) {
	t.Helper()
	if err := gdb.Create(v).Error; err != nil {
		t.Fatalf("create fixture: %v", err)
	}
}

func TestAddDriverRequiresLiveCompany(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	// 公司不存在
	if _, err := repo.Add(ctx, &entity.Driver{Name: "William", CompanyID: 999}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for dangling company, got %v", err)
	}

	// 公司已软删：同样拒绝
	mustCreate(t, gdb, &entity.Company{CompanyID: 101, CompanyName: "Yandex",
		Base: entity.Base{IsDeleted: true}})
	if _, err := repo.Add(ctx, &entity.Driver{Name: "William", CompanyID: 101}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for soft-deleted company, got %v", err)
	}

	mustCreate(t, gdb, &entity.Company{CompanyID: 102, CompanyName: "Uber"})
	added, err := repo.Add(ctx, &entity.Driver{Name: "Marta", CompanyID: 102})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID == 0 {
		t.Fatalf("expected surrogate id assigned")
	}
}

func TestGetDriverExcludesDeletedVehicles(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	mustCreate(t, gdb, &entity.Company{CompanyID: 101, CompanyName: "Yandex"})
	d := entity.Driver{Name: "William", CompanyID: 101}
	mustCreate(t, gdb, &d)
	mustCreate(t, gdb, &entity.Vehicle{Model: "Kia Rio", GovernmentNumber: "A001AA77", CompanyID: 101, DriverID: &d.ID})
	mustCreate(t, gdb, &entity.Vehicle{Model: "VW Polo", GovernmentNumber: "B002BB77", CompanyID: 101, DriverID: &d.ID,
		Base: entity.Base{IsDeleted: true}})

	got, err := repo.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Vehicles) != 1 || got.Vehicles[0].GovernmentNumber != "A001AA77" {
		t.Fatalf("expected only live vehicle, got %+v", got.Vehicles)
	}
}

func TestGetDriverNotFound(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	if _, err := repo.Get(ctx, 999); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mustCreate(t, gdb, &entity.Company{CompanyID: 101, CompanyName: "Yandex"})
	d := entity.Driver{Name: "William", CompanyID: 101, Base: entity.Base{IsDeleted: true}}
	mustCreate(t, gdb, &d)
	if _, err := repo.Get(ctx, d.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for soft-deleted driver, got %v", err)
	}
}

func TestUpdateDriverPreservesCreatedDate(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	mustCreate(t, gdb, &entity.Company{CompanyID: 101, CompanyName: "Yandex"})
	mustCreate(t, gdb, &entity.Company{CompanyID: 102, CompanyName: "Uber"})
	added, err := repo.Add(ctx, &entity.Driver{Name: "William", CompanyID: 101})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	repl := &entity.Driver{Name: "Bill", CompanyID: 102}
	repl.ID = added.ID
	upd, err := repo.Update(ctx, repl)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !upd.CreatedDate.Equal(added.CreatedDate) {
		t.Fatalf("expected created date preserved")
	}
	if upd.Name != "Bill" || upd.CompanyID != 102 {
		t.Fatalf("expected fields replaced, got %+v", upd)
	}
}

func TestUpdateDriverNotFoundCases(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	mustCreate(t, gdb, &entity.Company{CompanyID: 101, CompanyName: "Yandex"})

	// 司机不存在
	ghost := &entity.Driver{Name: "Ghost", CompanyID: 101}
	ghost.ID = 999
	if _, err := repo.Update(ctx, ghost); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing driver, got %v", err)
	}

	// 新公司不存在
	d := entity.Driver{Name: "William", CompanyID: 101}
	mustCreate(t, gdb, &d)
	repl := &entity.Driver{Name: "William", CompanyID: 999}
	repl.ID = d.ID
	if _, err := repo.Update(ctx, repl); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for dangling company, got %v", err)
	}
}

func TestRemoveDriverUnlinksVehicles(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	mustCreate(t, gdb, &entity.Company{CompanyID: 101, CompanyName: "Yandex"})
	d := entity.Driver{Name: "William", CompanyID: 101}
	mustCreate(t, gdb, &d)
	v := entity.Vehicle{Model: "Kia Rio", GovernmentNumber: "A001AA77", CompanyID: 101, DriverID: &d.ID}
	mustCreate(t, gdb, &v)

	removed, err := repo.Remove(ctx, d.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed.IsDeleted || removed.SoftDeletedDate == nil {
		t.Fatalf("expected driver marked deleted")
	}

	// 车辆只解绑，不删除
	var got entity.Vehicle
	if err := gdb.First(&got, v.ID).Error; err != nil {
		t.Fatalf("load vehicle: %v", err)
	}
	if got.IsDeleted {
		t.Fatalf("vehicle must stay live after driver remove")
	}
	if got.DriverID != nil {
		t.Fatalf("expected driver_id unlinked, got %v", *got.DriverID)
	}
}

func TestRemoveDriverNotFound(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	if _, err := repo.Remove(ctx, 999); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mustCreate(t, gdb, &entity.Company{CompanyID: 101, CompanyName: "Yandex"})
	d := entity.Driver{Name: "William", CompanyID: 101}
	mustCreate(t, gdb, &d)
	if _, err := repo.Remove(ctx, d.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := repo.Remove(ctx, d.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestDeleteDriverUnlinksVehiclesBeforeRowRemoval(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	mustCreate(t, gdb, &entity.Company{CompanyID: 101, CompanyName: "Yandex"})
	d := entity.Driver{Name: "William", CompanyID: 101}
	mustCreate(t, gdb, &d)
	v := entity.Vehicle{Model: "Kia Rio", GovernmentNumber: "A001AA77", CompanyID: 101, DriverID: &d.ID}
	mustCreate(t, gdb, &v)

	if _, err := repo.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int64
	gdb.Model(&entity.Driver{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected driver row gone")
	}

	var got entity.Vehicle
	if err := gdb.First(&got, v.ID).Error; err != nil {
		t.Fatalf("load vehicle: %v", err)
	}
	if got.DriverID != nil {
		t.Fatalf("expected no dangling driver reference")
	}
}

func TestGetAllDriversExcludesDeleted(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepo(gdb)
	ctx := context.Background()

	mustCreate(t, gdb, &entity.Company{CompanyID: 101, CompanyName: "Yandex"})
	mustCreate(t, gdb, &entity.Driver{Name: "William", CompanyID: 101})
	mustCreate(t, gdb, &entity.Driver{Name: "Mary", CompanyID: 101, Base: entity.Base{IsDeleted: true}})

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || all[0].Name != "William" {
		t.Fatalf("expected only live driver, got %+v", all)
	}
}
