package app

import (
	"os"
	"strings"

	"github.com/coachprep/coachprep-backend/internal/clients/redis"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type Clients struct {
	TokenDenylist redis.TokenDenylist
}

// wireClients builds the optional external collaborators. Without REDIS_ADDR
// the denylist stays nil and logout falls back to the token-row delete alone.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var denylist redis.TokenDenylist
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		d, err := redis.NewTokenDenylist(log)
		if err != nil {
			log.Warn("redis denylist unavailable, continuing without it", "error", err)
		} else {
			denylist = d
		}
	}

	return Clients{TokenDenylist: denylist}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.TokenDenylist != nil {
		_ = c.TokenDenylist.Close()
	}
}
