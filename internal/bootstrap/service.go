package bootstrap

import (
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	"github.com/LerianStudio/accounts-filing-api/pkg/server"
)

// Service is the runnable accounts filing API.
type Service struct {
	Server *server.ServerManager
	Logger log.Logger
}

// Run implements pkg.App.
func (s *Service) Run(_ *pkg.Launcher) error {
	return s.Server.StartWithGracefulShutdownWithError()
}

// Start runs the service under a Launcher until it shuts down.
func (s *Service) Start() error {
	return pkg.NewLauncher(
		pkg.WithLogger(s.Logger),
		pkg.RunApp("HTTP Service", s),
	).RunWithError()
}
