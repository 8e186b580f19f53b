package deduction

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	deductionerrors "go-payroll/internal/deduction/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	CatalogCacheKey = "deductions:all"
	CatalogCacheTTL = 30 * time.Minute

	generatedCodePrefix = "DED"
)

//go:generate mockgen -source=deduction_service.go -destination=mock/deduction_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	GetAll(ctx context.Context) ([]DeductionResponse, error)
	GetByID(ctx context.Context, id string) (DeductionResponse, error)
	GetByCode(ctx context.Context, code string) (DeductionResponse, error)
	Update(ctx context.Context, id string, req UpdateDeductionRequest) (DeductionResponse, error)
	Delete(ctx context.Context, id string) error
	SeedDefaults(ctx context.Context) (int, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("deduction.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("deduction.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return DeductionResponse{}, deductionerrors.ErrInvalidName
	}
	if !ValidPercentage(req.Percentage) {
		return DeductionResponse{}, deductionerrors.ErrInvalidPercentage
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create deduction begin tx failed", zap.Error(err))
		return DeductionResponse{}, err
	}
	defer tx.Rollback()

	code := normalizeCode(req.Code)
	if code == "" {
		next, err := s.counter.WithTx(tx).GetNextValue(ctx, counter.TypeDeduction)
		if err != nil {
			s.logger.Error("create deduction generate code failed", zap.Error(err))
			return DeductionResponse{}, err
		}
		code = counter.FormatCode(generatedCodePrefix, next)
	}

	d := &Deduction{
		ID:         uuid.New(),
		Code:       code,
		Name:       name,
		Percentage: req.Percentage.Round(2),
	}

	if err := s.repo.WithTx(tx).Create(ctx, d); err != nil {
		s.logger.Warn("create deduction failed", zap.String("code", code), zap.Error(err))
		return DeductionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return DeductionResponse{}, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info("deduction created",
		append(contextutil.LoggerFields(ctx),
			zap.String("deduction_id", d.ID.String()),
			zap.String("code", d.Code),
			zap.String("percentage", d.Percentage.StringFixed(2)),
		)...,
	)

	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context) ([]DeductionResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, CatalogCacheKey).Result(); err == nil {
			var resp []DeductionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(CatalogCacheKey, func() (interface{}, error) {
		deductions, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(deductions)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, CatalogCacheKey, jsonData, CatalogCacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		s.logger.Error("get all deductions failed", zap.Error(err))
		return nil, err
	}

	return v.([]DeductionResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DeductionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeductionResponse{}, deductionerrors.ErrInvalidDeductionID
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DeductionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*d), nil
}

func (s *service) GetByCode(ctx context.Context, code string) (DeductionResponse, error) {
	d, err := s.repo.FindByCode(ctx, normalizeCode(code))
	if err != nil {
		return DeductionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDeductionRequest) (DeductionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeductionResponse{}, deductionerrors.ErrInvalidDeductionID
	}
	if req.Name == nil && req.Percentage == nil {
		return DeductionResponse{}, deductionerrors.ErrEmptyUpdate
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return DeductionResponse{}, deductionerrors.ErrInvalidName
	}
	if req.Percentage != nil && !ValidPercentage(*req.Percentage) {
		return DeductionResponse{}, deductionerrors.ErrInvalidPercentage
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update deduction begin tx failed", zap.Error(err))
		return DeductionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DeductionResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		d.Name = strings.TrimSpace(*req.Name)
	}
	if req.Percentage != nil {
		d.Percentage = req.Percentage.Round(2)
	}

	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("update deduction failed", zap.String("deduction_id", id), zap.Error(err))
		return DeductionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return DeductionResponse{}, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info("deduction updated",
		zap.String("deduction_id", id),
		zap.String("code", d.Code),
		zap.String("percentage", d.Percentage.StringFixed(2)),
	)

	return mapToResponse(*d), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return deductionerrors.ErrInvalidDeductionID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info("deduction deleted", zap.String("deduction_id", id))
	return nil
}

// SeedDefaults inserts every recognised code that is missing and leaves
// existing rates untouched. It returns the number of rows inserted.
func (s *service) SeedDefaults(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	inserted := 0
	for _, def := range Defaults {
		created, err := qtx.CreateIfAbsent(ctx, &Deduction{
			ID:         uuid.New(),
			Code:       def.Code,
			Name:       def.Name,
			Percentage: def.Percentage,
		})
		if err != nil {
			s.logger.Error("seed deduction failed", zap.String("code", def.Code), zap.Error(err))
			return 0, mapRepositoryError(err)
		}
		if created {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	if inserted > 0 {
		s.invalidateCatalog(ctx)
	}
	s.logger.Info("deduction defaults seeded", zap.Int("inserted", inserted))

	return inserted, nil
}

func (s *service) invalidateCatalog(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, CatalogCacheKey).Err(); err != nil {
		s.logger.Warn("invalidate deduction cache failed", zap.Error(err))
	}
}

func mapToResponse(d Deduction) DeductionResponse {
	return DeductionResponse{
		ID:         d.ID.String(),
		Code:       d.Code,
		Name:       d.Name,
		Percentage: d.Percentage.StringFixed(2),
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  d.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(deductions []Deduction) []DeductionResponse {
	res := make([]DeductionResponse, len(deductions))
	for i, d := range deductions {
		res[i] = mapToResponse(d)
	}
	return res
}
