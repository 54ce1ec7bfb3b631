package initialize

import (
	"context"
	"fmt"
	"gradebook/backend/app/controllers"
	"gradebook/backend/app/db"
	jwtutil "gradebook/backend/app/jwt"
	"gradebook/backend/app/middleware"
	"gradebook/backend/app/models"
	"gradebook/backend/app/repo"
	"gradebook/backend/app/services"
	"gradebook/backend/config"
	"gradebook/backend/router"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type App struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Router   http.Handler
	Auth     *services.AuthService
	Accounts *services.AccountService
	Grades   *services.GradeService
}

// Close releases the database pool and the redis client.
func (a *App) Close() error {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	// Connect DB
	gdb, err := db.Connect(db.Config{
		Driver:       cfg.DB.Driver,
		DSN:          cfg.DB.DSN,
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Pass,
		DBName:       cfg.DB.Name,
		MaxOpenConns: cfg.DB.MaxOpenConns,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	app := &App{Cfg: cfg, DB: gdb}

	// Login throttle
	var throttle services.LoginThrottle = services.NoopThrottle{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, login throttle fails open until it recovers")
		}
		app.Redis = rdb
		throttle = services.NewRedisThrottle(rdb, cfg.Auth.MaxFailures, cfg.Auth.LockoutWindow)
	}

	// Services
	hasher, err := services.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	signer := jwtutil.NewSigner([]byte(cfg.JWT.Secret), cfg.JWT.Issuer, cfg.JWT.TTL)
	accountRepo := repo.NewAccountRepository(gdb)
	gradeRepo := repo.NewGradeRepository(gdb)
	app.Accounts = services.NewAccountService(accountRepo, hasher)
	app.Auth = services.NewAuthService(accountRepo, hasher, signer, throttle, log)
	app.Grades = services.NewGradeService(accountRepo, gradeRepo)

	if err := bootstrap(ctx, app.Accounts, cfg.Bootstrap, log); err != nil {
		_ = app.Close()
		return nil, err
	}

	// Controllers
	sqlDB, err := gdb.DB()
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	ctrls := router.Controllers{
		HTTP:              controllers.NewHTTPController(sqlDB),
		Auth:              controllers.NewAuthController(app.Auth, app.Accounts),
		Students:          controllers.NewAccountController(app.Accounts, models.RoleStudent),
		Instructors:       controllers.NewAccountController(app.Accounts, models.RoleInstructor),
		InstructorByQuery: controllers.NewAccountController(app.Accounts, models.RoleInstructor, "instructor_id"),
		Grades:            controllers.NewGradeController(app.Grades),
	}
	mw := &middleware.Auth{Gate: services.NewGate(signer, accountRepo)}

	// Router
	h := router.NewRouter(ctrls, mw)
	h = middleware.CORS(cfg.CORS.AllowedOrigins)(h)
	app.Router = middleware.Logging(log)(h)
	return app, nil
}

// bootstrap seeds the configured instructor so a fresh install can log in.
func bootstrap(ctx context.Context, accounts *services.AccountService, b config.Bootstrap, log zerolog.Logger) error {
	if b.Username == "" {
		return nil
	}
	dob, err := time.Parse("2006-01-02", b.DateOfBirth)
	if err != nil {
		return fmt.Errorf("bootstrap.date_of_birth: %w", err)
	}
	email := b.Email
	if email == "" {
		email = b.Username + "@gradebook.local"
	}
	created, err := accounts.EnsureAccount(ctx, services.AccountInput{
		Username:    b.Username,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		Email:       email,
		DateOfBirth: dob,
		Role:        models.RoleInstructor,
		Password:    b.Password,
	})
	if err != nil {
		return fmt.Errorf("bootstrap instructor: %w", err)
	}
	if created {
		log.Info().Str("username", b.Username).Msg("bootstrap instructor created")
	}
	return nil
}
