package db

import (
	"fmt"
	"time"

	"github.com/FleetLink/FleetLink/internal/entity"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL 创建 MySQL 连接。
// TranslateError 打开后，重复键等驱动错误会被归一化为 gorm 的错误类型，
// 仓储层依赖这一点把提交时的唯一索引竞争映射为冲突错误。
func NewMySQL(host string, port int, user, password, database string, maxIdle, maxOpen int) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, database)

	gormDB, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gormDB, nil
}

// Migrate 建表（不存在时）。
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&entity.Company{},
		&entity.Driver{},
		&entity.Vehicle{},
		&entity.User{},
	)
}

// Seed 写入初始数据。仅在 companies 表为空时执行，重复调用无副作用。
func Seed(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&entity.Company{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return gormDB.Transaction(func(tx *gorm.DB) error {
		companies := []entity.Company{
			{CompanyID: 101, CompanyName: "Yandex"},
			{CompanyID: 102, CompanyName: "Uber"},
			{CompanyID: 103, CompanyName: "YouDrive"},
			{CompanyID: 104, CompanyName: "Delimobil"},
			{CompanyID: 105, CompanyName: "MyTaxi"},
		}
		if err := tx.Create(&companies).Error; err != nil {
			return err
		}

		drivers := []entity.Driver{
			{Name: "William", CompanyID: 101},
			{Name: "Mary", CompanyID: 105},
			{Name: "Marta", CompanyID: 102},
			{Name: "Bobby", CompanyID: 103},
			{Name: "Jack", CompanyID: 103},
			{Name: "Summer", CompanyID: 101},
			{Name: "Rose", CompanyID: 104},
			{Name: "Deacon", CompanyID: 103},
		}
		if err := tx.Create(&drivers).Error; err != nil {
			return err
		}

		// 一部分车辆绑定司机（CompanyID 跟随司机），一部分直属公司
		vehicles := []entity.Vehicle{
			{Model: "Kia Rio", GovernmentNumber: "A001AA77", CompanyID: drivers[0].CompanyID, DriverID: &drivers[0].ID},
			{Model: "Hyundai Solaris", GovernmentNumber: "B123BB77", CompanyID: drivers[2].CompanyID, DriverID: &drivers[2].ID},
			{Model: "VW Polo", GovernmentNumber: "C777CC99", CompanyID: drivers[3].CompanyID, DriverID: &drivers[3].ID},
			{Model: "Skoda Rapid", GovernmentNumber: "E555EE77", CompanyID: 104},
			{Model: "Renault Logan", GovernmentNumber: "K888KK50", CompanyID: 103},
		}
		return tx.Create(&vehicles).Error
	})
}
