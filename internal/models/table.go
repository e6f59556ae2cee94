package models

type TableArea string

const (
	AreaRegular TableArea = "regular"
	AreaHotpot  TableArea = "hotpot"
	AreaVIP     TableArea = "vip"
)

type Table struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"type:varchar(100);not null" json:"name"`
	Area     TableArea `gorm:"type:varchar(20);not null" json:"area"`
	Capacity int       `gorm:"not null" json:"capacity"`
}

// TableAvailability is a table annotated for one requested booking window.
type TableAvailability struct {
	Table
	IsAvailable bool `json:"is_available"`
}
