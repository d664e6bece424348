// Package server wires services, handlers and middleware into the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cookscorner/config"
	accountRepo "github.com/ncobase/cookscorner/core/account/data/repository"
	accountHandler "github.com/ncobase/cookscorner/core/account/handler"
	accountService "github.com/ncobase/cookscorner/core/account/service"
	profileRepo "github.com/ncobase/cookscorner/core/profile/data/repository"
	profileHandler "github.com/ncobase/cookscorner/core/profile/handler"
	profileService "github.com/ncobase/cookscorner/core/profile/service"
	recipeHandler "github.com/ncobase/cookscorner/core/recipe/handler"
	recipeService "github.com/ncobase/cookscorner/core/recipe/service"
	"github.com/ncobase/cookscorner/data"
	"github.com/ncobase/cookscorner/internal/middleware"
	"github.com/ncobase/cookscorner/logging/logger"
	"github.com/ncobase/cookscorner/messaging/email"
	"github.com/ncobase/cookscorner/net/resp"
	"github.com/ncobase/cookscorner/security/jwt"
	"github.com/ncobase/cookscorner/validator"
)

// APIPrefix is the mount point of every API route.
const APIPrefix = "/api/v1"

// Server holds the wired services and the gin engine.
type Server struct {
	cfg      *config.Config
	data     *data.Data
	accounts *accountService.Service
	profiles *profileService.Service
	recipes  *recipeService.Service
	engine   *gin.Engine
}

// New wires every module on top of d. A nil sender selects the provider
// named in cfg.Email.
func New(cfg *config.Config, d *data.Data, sender email.Sender) (*Server, error) {
	if cfg == nil || cfg.Auth == nil || cfg.Auth.JWT == nil {
		return nil, errors.New("server: auth configuration is missing")
	}
	if d == nil {
		return nil, errors.New("server: data layer is nil")
	}
	if sender == nil {
		var err error
		sender, err = email.NewSender(cfg.Email, func(format string, args ...any) {
			logger.Debugf(context.Background(), format, args...)
		})
		if err != nil {
			return nil, fmt.Errorf("server: email sender: %w", err)
		}
	}

	resetCheck, err := accountService.ParseResetCheck(cfg.Auth.ResetCheck)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	var denylist accountRepo.Denylist
	if rc := d.Redis(); rc != nil {
		denylist = accountRepo.NewRedisDenylist(rc)
	} else {
		denylist = accountRepo.NewSQLDenylist(d)
	}

	profiles := profileService.New(profileRepo.NewProfileRepository(d))

	timeout := 30 * time.Second
	if cfg.Email != nil && cfg.Email.Timeout > 0 {
		timeout = cfg.Email.Timeout
	}
	accounts := accountService.New(accountService.Dependencies{
		Accounts:      accountRepo.NewAccountRepository(d),
		Confirmations: accountRepo.NewCodeRepository(d, d.Dialect(), accountRepo.ConfirmationCode),
		Resets:        accountRepo.NewCodeRepository(d, d.Dialect(), accountRepo.ResetCode),
		Tokens:        accountService.NewTokenService(jwt.NewTokenManager(cfg.Auth.JWT.Secret), denylist, cfg.Auth.JWT),
		Notifier:      accountService.NewEmailNotifier(sender, cfg.Links, timeout),
		Profiles:      profiles,
		Policy:        passwordPolicy(cfg.Auth.Password),
		ResetCheck:    resetCheck,
	})

	recipeDeps := recipeService.Dependencies{DB: d, Accounts: accounts, Profiles: profiles}
	if client, index := d.Meili(); client != nil {
		recipeDeps.Search = client
		recipeDeps.Index = index
	}

	s := &Server{
		cfg:      cfg,
		data:     d,
		accounts: accounts,
		profiles: profiles,
		recipes:  recipeService.New(recipeDeps),
	}
	s.engine = s.router()
	return s, nil
}

func passwordPolicy(c *config.Password) validator.PasswordPolicy {
	if c == nil {
		return validator.DefaultPasswordPolicy()
	}
	return validator.PasswordPolicy{
		MinLength:     c.MinLength,
		MaxLength:     c.MaxLength,
		RequireUpper:  c.RequireUpper,
		RequireLower:  c.RequireLower,
		RequireDigit:  c.RequireDigit,
		RejectNumeric: c.RejectNumeric,
		RejectCommon:  c.RejectCommon,
	}
}

func (s *Server) router() *gin.Engine {
	if s.cfg.RunMode != "" {
		gin.SetMode(s.cfg.RunMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Trace())
	r.Use(middleware.Logger())

	r.GET("/health", s.health)
	r.NoRoute(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotFound("Not found."))
	})

	api := r.Group(APIPrefix)
	auth := middleware.Auth(s.accounts)
	accountHandler.New(s.accounts).RegisterRoutes(api, auth)
	profileHandler.New(s.profiles).RegisterRoutes(api, auth)
	recipeHandler.New(s.recipes).RegisterRoutes(api, auth)

	return r
}

func (s *Server) health(c *gin.Context) {
	report := s.data.Health(c.Request.Context())
	if report["status"] != "healthy" {
		resp.WithStatusCode(c.Writer, http.StatusServiceUnavailable, report)
		return
	}
	resp.Success(c.Writer, report)
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}
