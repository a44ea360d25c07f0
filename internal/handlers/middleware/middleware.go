package middleware

import (
	"maintlog/config"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	Config config.Config
	log    logger.Logger
}

func New(config config.Config) Middleware {
	return Middleware{
		Config: config,
		log:    logger.New("middleware"),
	}
}
