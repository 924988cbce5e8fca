package specification

import "gorm.io/gorm"

// ByCollection scopes a query to one document collection.
type ByCollection struct {
	Collection string
}

func (s ByCollection) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("collection = ?", s.Collection)
}

// ByUserId scopes a query to one user's records (memory collection).
type ByUserId struct {
	UserId string
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// ByIds filters by a list of document ids.
type ByIds struct {
	Ids []int64
}

func (s ByIds) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.Ids)
}

// MinPrice keeps records priced at or above the bound.
type MinPrice struct {
	Value float64
}

func (s MinPrice) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price >= ?", s.Value)
}

// MaxPrice keeps records priced at or below the bound.
type MaxPrice struct {
	Value float64
}

func (s MaxPrice) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price <= ?", s.Value)
}

// MinStock keeps records with at least the given stock.
type MinStock struct {
	Value int
}

func (s MinStock) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stock >= ?", s.Value)
}

// MinScreen keeps records with screen size at or above the bound.
type MinScreen struct {
	Value float64
}

func (s MinScreen) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("screen_size >= ?", s.Value)
}

// MaxScreen keeps records with screen size at or below the bound.
type MaxScreen struct {
	Value float64
}

func (s MaxScreen) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("screen_size <= ?", s.Value)
}

// ColorLike does a case-insensitive partial match on the color field.
type ColorLike struct {
	Value string
}

func (s ColorLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("color ILIKE ?", "%"+s.Value+"%")
}

// ModelLike does a case-insensitive partial match on the model field.
type ModelLike struct {
	Value string
}

func (s ModelLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("model ILIKE ?", "%"+s.Value+"%")
}
