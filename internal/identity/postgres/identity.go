package postgres

import (
	"gorm.io/gorm"

	identityDatamodel "github.com/tinkrentals/rent-ledger/internal/core/datamodel/identity"
)

// Resolver answers existence checks against the property-management
// tables. It satisfies the ledger's IdentityResolver.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{
		db: db,
	}
}

func (r *Resolver) ResolveLandlord(id int64) (bool, error) {
	return r.exists(&identityDatamodel.Landlord{}, id)
}

func (r *Resolver) ResolveTenant(id int64) (bool, error) {
	return r.exists(&identityDatamodel.Tenant{}, id)
}

func (r *Resolver) ResolveProperty(id int64) (bool, error) {
	return r.exists(&identityDatamodel.Property{}, id)
}

func (r *Resolver) ResolveLease(id int64) (bool, error) {
	return r.exists(&identityDatamodel.Lease{}, id)
}

func (r *Resolver) exists(model interface{}, id int64) (bool, error) {
	var count int64
	err := r.db.Model(model).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
