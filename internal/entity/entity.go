package entity

import "time"

// Base 是所有表共有的基础字段。
// ID 由存储层生成，创建后不再变化；CreatedDate 仅在插入时写入；
// 软删除通过 IsDeleted + SoftDeletedDate 表达（只允许 false -> true）。
type Base struct {
	ID              uint       `gorm:"primaryKey;autoIncrement"`
	CreatedDate     time.Time  `gorm:"autoCreateTime"`
	SoftDeletedDate *time.Time `gorm:""`
	IsDeleted       bool       `gorm:"not null;default:false;index"`
}

// Company 是 companies 表的 GORM 模型。
// CompanyID 是业务方指定的自然键（不自增），与代理键 ID 区分。
type Company struct {
	Base
	CompanyID   int    `gorm:"column:company_id;uniqueIndex;not null"`
	CompanyName string `gorm:"size:80;not null"`

	Drivers  []Driver  `gorm:"foreignKey:CompanyID;references:CompanyID;constraint:OnDelete:CASCADE"`
	Vehicles []Vehicle `gorm:"foreignKey:CompanyID;references:CompanyID;constraint:OnDelete:CASCADE"`
}

func (Company) TableName() string { return "companies" }

// Driver 是 drivers 表的 GORM 模型。司机必须隶属于一个公司。
type Driver struct {
	Base
	Name      string `gorm:"size:50;not null"`
	CompanyID int    `gorm:"column:company_id;not null;index"`

	// 司机删除时车辆只解绑不删除，因此 FK 规则为 RESTRICT，解绑在仓储层完成。
	Vehicles []Vehicle `gorm:"foreignKey:DriverID;constraint:OnDelete:RESTRICT"`
}

func (Driver) TableName() string { return "drivers" }

// Vehicle 是 vehicles 表的 GORM 模型。
// GovernmentNumber 全表唯一，唯一索引不区分软删除状态。
// 绑定了司机的车辆 CompanyID 一律取司机的 CompanyID（派生字段，见仓储层）。
type Vehicle struct {
	Base
	Model            string `gorm:"size:80;not null"`
	GovernmentNumber string `gorm:"size:9;uniqueIndex;not null"`
	CompanyID        int    `gorm:"column:company_id;not null;index"`
	DriverID         *uint  `gorm:"index"`
}

func (Vehicle) TableName() string { return "vehicles" }

// Role 用户角色枚举（持久化为字符串）。
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid 判断角色是否为已知取值。
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User 是 users 表的 GORM 模型。
// Login 唯一（比较时不区分大小写）；Password 仅存放 auth 包产出的加盐哈希。
type User struct {
	Base
	Login    string `gorm:"size:64;not null;uniqueIndex"`
	Password string `gorm:"size:128;not null"`
	Role     Role   `gorm:"type:varchar(16);not null"`
}

func (User) TableName() string { return "users" }
