package controllers

import (
	"maintlog/config"
	"maintlog/internal/repositories"
	"maintlog/internal/services"

	lookupsController "maintlog/internal/controllers/lookups"
	ticketsController "maintlog/internal/controllers/tickets"
)

type Controllers struct {
	Tickets ticketsController.TicketControllerInterface
	Lookups lookupsController.LookupsControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	config config.Config,
) Controllers {
	return Controllers{
		Tickets: ticketsController.New(repos, services, config),
		Lookups: lookupsController.New(repos),
	}
}
