package identity

import "time"

// These rows are owned by the property-management side of the system. The
// ledger only ever checks that a referenced row exists; it never writes
// here outside of the seeder.

type Landlord struct {
	ID           int64     `gorm:"primaryKey"`
	OrgName      string    `gorm:"column:org_name;not null"`
	ContactEmail string    `gorm:"column:contact_email;uniqueIndex"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (Landlord) TableName() string {
	return "landlords"
}

type Tenant struct {
	ID        int64     `gorm:"primaryKey"`
	FullName  string    `gorm:"column:full_name;not null"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Tenant) TableName() string {
	return "tenants"
}

type Property struct {
	ID         int64     `gorm:"primaryKey"`
	LandlordID int64     `gorm:"column:landlord_id;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	Address    string    `gorm:"column:address"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:now()"`
}

func (Property) TableName() string {
	return "properties"
}

type Lease struct {
	ID               int64     `gorm:"primaryKey"`
	LandlordID       int64     `gorm:"column:landlord_id;not null;index"`
	TenantID         int64     `gorm:"column:tenant_id;not null;index"`
	PropertyID       int64     `gorm:"column:property_id;not null;index"`
	MonthlyRentCents int64     `gorm:"column:monthly_rent_cents;not null"`
	StartDate        time.Time `gorm:"column:start_date;type:date"`
	EndDate          time.Time `gorm:"column:end_date;type:date"`
	IsActive         bool      `gorm:"column:is_active;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time `gorm:"column:updated_at;default:now()"`
}

func (Lease) TableName() string {
	return "leases"
}
