// Package bootstrap builds the application for serverless hosting. The api handler imports this
// package because platform builders cannot import internal packages.
package bootstrap

import (
	"net/http"
	"sync"

	"villfinder-backend/internal/config"
	"villfinder-backend/internal/interfaces/router"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	once    sync.Once
	handler http.Handler
	initErr error
)

// Handler returns the process wide HTTP handler, building it on first use.
// A failed build is remembered and returned on every call.
func Handler() (http.Handler, error) {
	once.Do(func() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}
		app, _, _, err := router.CreateApp(cfg)
		if err != nil {
			initErr = err
			return
		}
		handler = router.Handler(app)
	})
	if initErr != nil {
		log.Error().Err(initErr).Msg("bootstrap failed")
	}
	return handler, initErr
}
