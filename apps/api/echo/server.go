package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/academic"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Logger         core.Logger
		UserSvc        *user.Service
		AcademicSvc    *academic.Service
		RosterSvc      *roster.Service
		AttendanceSvc  *attendance.Service
	}

	Server struct {
		opts  *Options
		app   *echo.Echo
		errCh chan error
		sigCh chan os.Signal
	}
)

func NewServer(opts *Options) *Server {
	s := &Server{
		opts:  opts,
		app:   echo.New(),
		errCh: make(chan error, 1),
		sigCh: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerAuthAPI(v1, jwt, s.opts.UserSvc)
	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerAcademicAPI(v1, jwt, s.opts.AcademicSvc)
	registerRosterAPI(v1, jwt, s.opts.RosterSvc)
	registerAttendanceAPI(v1, jwt, s.opts.AttendanceSvc)
}

func (s *Server) Start() {
	signal.Notify(s.sigCh, os.Interrupt, syscall.SIGTERM)
	s.errCh <- s.app.Start(s.opts.Address)
}

// Errors reports a fatal listener error.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// ShutdownSignal reports OS interrupts and internal shutdown requests.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.sigCh
}

func (s *Server) signalShutdown() {
	s.sigCh <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Mahudhurio API!")
}
