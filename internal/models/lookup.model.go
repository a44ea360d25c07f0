package models

// Lookup tables only feed selection lists and field validation; tickets store
// the plain values, not foreign keys.

type Factory struct {
	Factory string `gorm:"column:factory;type:varchar(64);primaryKey" json:"factory"`
}

func (Factory) TableName() string {
	return "Factory"
}

type Status struct {
	Status string `gorm:"column:status;type:varchar(64);primaryKey" json:"status"`
}

func (Status) TableName() string {
	return "Status"
}

type Personnel struct {
	Name string `gorm:"column:name;type:varchar(64);primaryKey" json:"name"`
}

func (Personnel) TableName() string {
	return "Personnel"
}
