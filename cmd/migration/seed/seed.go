package seed

import (
	"time"

	"maintlog/config"
	. "maintlog/internal/models"
	"maintlog/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func pick(values []string, fallback string, i int) string {
	if len(values) == 0 {
		return fallback
	}
	return values[i%len(values)]
}

// Seed inserts a small set of development tickets dated today and yesterday.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	now := time.Now()
	days := []time.Time{now.AddDate(0, 0, -1), now}
	locations := []string{"Line A", "Line B", "Dock", "Boiler room"}
	descriptions := []string{"belt worn", "oil leak", "", "sensor offline"}

	count := 0
	for _, day := range days {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
		for i := range 3 {
			ticket := MaintenanceTicket{
				ID:          utils.FormatTicketID(day, i+1),
				CreatedAt:   start.Add(time.Duration(i+1) * 20 * time.Minute),
				Factory:     pick(config.Factories(), "F1", i),
				Location:    locations[i%len(locations)],
				Status:      pick(config.Statuses(), "Open", i),
				Personnel:   pick(config.Personnel(), "Operator", i),
				Description: descriptions[i%len(descriptions)],
			}

			var existing MaintenanceTicket
			if err := db.First(&existing, "id = ?", ticket.ID).Error; err == nil {
				log.Debug("Ticket already exists", "id", ticket.ID)
				continue
			}

			if err := db.Create(&ticket).Error; err != nil {
				return log.Err("failed to create ticket", err, "id", ticket.ID)
			}
			count++
		}
	}

	log.Info("Seeded development tickets", "count", count)
	return nil
}
