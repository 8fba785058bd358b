package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mpetrov/user-service/internal/logger"
	"github.com/mpetrov/user-service/internal/model"
)

// User implements business operations over a user store.
type User struct {
	store               model.UserStore
	health              model.DatabaseHealth
	logger              *logger.Logger
	environment         string
	telemetryConfigured bool
}

// NewUser creates a User service. health is nil for in-memory deployments.
func NewUser(
	store model.UserStore,
	health model.DatabaseHealth,
	logger *logger.Logger,
	environment string,
	telemetryConfigured bool,
) *User {
	return &User{
		store:               store,
		health:              health,
		logger:              logger,
		environment:         environment,
		telemetryConfigured: telemetryConfigured,
	}
}

func (s *User) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("User service: failed to list users",
			"error", err.Error())
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	s.logger.Info("User service: retrieved users",
		"count", len(users))
	return users, nil
}

func (s *User) GetUser(ctx context.Context, id int64) (model.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Warn("User service: user not found",
			"user_id", id)
		return model.User{}, err
	}
	if err != nil {
		s.logger.Error("User service: failed to get user",
			"user_id", id,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	s.logger.Info("User service: user found",
		"user_id", user.ID,
		"user_name", user.Name)
	return user, nil
}

func (s *User) CreateUser(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	user, err := s.store.Create(ctx, params)
	if errors.Is(err, model.ErrEmailTaken) {
		s.logger.Warn("User service: duplicate email",
			"email", params.Email)
		return model.User{}, err
	}
	if err != nil {
		s.logger.Error("User service: failed to create user",
			"user_name", params.Name,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User service: user created",
		"user_id", user.ID,
		"user_name", user.Name,
		"user_age", user.Age)
	return user, nil
}

func (s *User) DeleteUser(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Warn("User service: user not found for deletion",
			"user_id", id)
		return err
	}
	if err != nil {
		s.logger.Error("User service: failed to delete user",
			"user_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User service: user deleted",
		"user_id", id)
	return nil
}

// Metrics collects the application metrics snapshot. A storage failure is
// reported as a disconnected database, never as an error: the metrics
// endpoint always answers.
func (s *User) Metrics(ctx context.Context) model.Metrics {
	metrics := model.Metrics{
		TelemetryConfigured: s.telemetryConfigured,
		Environment:         s.environment,
		DatabaseConnected:   s.health != nil,
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Error("User service: failed to count users for metrics",
			"error", err.Error())
		metrics.DatabaseConnected = false
		return metrics
	}
	metrics.TotalUsers = count

	if s.health != nil {
		metrics.DatabaseConnected = s.health.Ping(ctx) == nil
	}

	return metrics
}

// DatabaseHealth probes database connectivity and collects table
// statistics. Probe failures yield an unhealthy report, not an error.
func (s *User) DatabaseHealth(ctx context.Context) model.DatabaseHealthReport {
	if s.health == nil {
		return model.DatabaseHealthReport{
			Status: "unhealthy",
			Error:  "database not configured",
		}
	}

	if err := s.health.Ping(ctx); err != nil {
		s.logger.Error("User service: database health check failed",
			"error", err.Error())
		return model.DatabaseHealthReport{
			Status: "unhealthy",
			Error:  err.Error(),
		}
	}

	stats, err := s.health.Stats(ctx)
	if err != nil {
		s.logger.Error("User service: failed to collect database stats",
			"error", err.Error())
		return model.DatabaseHealthReport{
			Status: "unhealthy",
			Error:  err.Error(),
		}
	}

	s.logger.Info("User service: database health check completed")
	return model.DatabaseHealthReport{
		Status:           "healthy",
		TotalUsers:       stats.TotalUsers,
		FirstUserCreated: stats.FirstUserCreated,
		LastUserCreated:  stats.LastUserCreated,
		TableSizeMB:      stats.TableSizeMB,
	}
}
