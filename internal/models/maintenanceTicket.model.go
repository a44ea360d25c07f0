package models

import (
	"time"

	"gorm.io/gorm"
)

const MaintenanceTicketTable = "Maintenance"

// MaintenanceTicket is one maintenance request. ID and CreatedAt are fixed at
// creation; the remaining fields are overwritten by updates.
type MaintenanceTicket struct {
	ID          string    `gorm:"column:id;type:varchar(32);primaryKey"                          json:"id"`
	CreatedAt   time.Time `gorm:"column:Create_time;not null;index:idx_maintenance_create_time" json:"createdAt"`
	Factory     string    `gorm:"column:factory;type:varchar(64);not null"                      json:"factory"`
	Location    string    `gorm:"column:location;type:varchar(255);not null"                    json:"location"`
	Status      string    `gorm:"column:status;type:varchar(64);not null"                       json:"status"`
	Personnel   string    `gorm:"column:personnel;type:varchar(64);not null"                    json:"personnel"`
	Description string    `gorm:"column:description;type:text"                                  json:"description"`
}

func (MaintenanceTicket) TableName() string {
	return MaintenanceTicketTable
}

// TicketFields are the mutable columns of a ticket.
type TicketFields struct {
	Factory     string `json:"factory"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	Personnel   string `json:"personnel"`
	Description string `json:"description"`
}

func (t *MaintenanceTicket) Fields() TicketFields {
	return TicketFields{
		Factory:     t.Factory,
		Location:    t.Location,
		Status:      t.Status,
		Personnel:   t.Personnel,
		Description: t.Description,
	}
}

func (t *MaintenanceTicket) Apply(fields TicketFields) {
	t.Factory = fields.Factory
	t.Location = fields.Location
	t.Status = fields.Status
	t.Personnel = fields.Personnel
	t.Description = fields.Description
}

func (t *MaintenanceTicket) Clone() *MaintenanceTicket {
	clone := *t
	return &clone
}

func (t *MaintenanceTicket) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		return gorm.ErrInvalidValue
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return nil
}
