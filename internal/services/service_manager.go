package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/auth"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
	"github.com/SAP-F-2025/registration-service/internal/validator"
)

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Student() StudentService
	UserStudent() UserStudentService
	Auth() AuthService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenManager
	config    ServiceManagerConfig

	// Service instances
	studentService     StudentService
	userStudentService UserStudentService
	authService        AuthService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, hasher *auth.PasswordHasher, tokens *auth.TokenManager, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		hasher:    hasher,
		tokens:    tokens,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, hasher *auth.PasswordHasher, tokens *auth.TokenManager) ServiceManager {
	config := ServiceManagerConfig{
		DefaultTimeout: 30 * time.Second,
	}

	return NewServiceManager(db, repo, logger, validator, hasher, tokens, config)
}

// Initialize sets up all services and seeds the role catalog
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.repo.Role().Seed(ctx, sm.db); err != nil {
		return fmt.Errorf("failed to seed role catalog: %w", err)
	}

	roleResolver := NewRoleResolver(sm.repo, sm.db, sm.logger)

	sm.studentService = NewStudentService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("Student service initialized")

	sm.userStudentService = NewUserStudentService(sm.repo, sm.db, sm.logger, sm.validator, sm.hasher, roleResolver)
	sm.logger.Info("User student service initialized")

	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, sm.hasher, sm.tokens)
	sm.logger.Info("Auth service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.studentService != nil {
		return sm.studentService
	}

	panic("student service not initialized")
}

func (sm *serviceManager) UserStudent() UserStudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.userStudentService != nil {
		return sm.userStudentService
	}

	panic("user student service not initialized")
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.authService != nil {
		return sm.authService
	}

	panic("auth service not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	sm.shutdown = true
	sm.initialized = false

	return nil
}
