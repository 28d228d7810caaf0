package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/horarios/sgh-api/internal/dto"
	"github.com/horarios/sgh-api/internal/models"
	appErrors "github.com/horarios/sgh-api/pkg/errors"
)

type courseReader interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type scheduleReader interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleEntry, error)
}

type scheduleStore interface {
	scheduleReader
	ListByCourse(ctx context.Context, courseID string) ([]models.ScheduleEntry, error)
	BulkCreateWithTx(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type teacherSubjectReader interface {
	FindByID(ctx context.Context, id string) (*models.TeacherSubject, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherSubject, error)
}

type availabilityReader interface {
	FindByTeacherAndDay(ctx context.Context, teacherID string, day models.Weekday) (*models.TeacherAvailability, error)
}

type generationRunStore interface {
	AcquireLock(ctx context.Context, exec sqlx.ExtContext, key int64) error
	Savepoint(ctx context.Context, exec sqlx.ExtContext, name string) error
	RollbackToSavepoint(ctx context.Context, exec sqlx.ExtContext, name string) error
	Create(ctx context.Context, exec sqlx.ExtContext, run *models.GenerationRun) error
	Finalize(ctx context.Context, exec sqlx.ExtContext, run *models.GenerationRun) error
	List(ctx context.Context, page, size int) ([]models.GenerationRun, int, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type generationNotifier interface {
	Notify(ctx context.Context, event dto.GenerationEvent)
}

// GenerationRepositories groups the persistence collaborators of a run.
type GenerationRepositories struct {
	Courses      courseReader
	Schedules    scheduleStore
	Teachers     teacherReader
	Subjects     subjectReader
	Bindings     teacherSubjectReader
	Availability availabilityReader
	Runs         generationRunStore
}

// ScheduleGenerationConfig governs run validation and locking.
type ScheduleGenerationConfig struct {
	MaxPeriodDays int
	LockKey       int64
	HistoryTTL    time.Duration
}

const (
	generationSavepoint  = "generation"
	historyCachePattern  = "schedule_history:*"
	defaultHistorySize   = 10
	runStartedMessage    = "Iniciando generación"
	dateLayout           = "2006-01-02"
	defaultMaxPeriodDays = 366
)

// ScheduleGenerationService runs the automatic timetable generator and exposes
// the run history.
type ScheduleGenerationService struct {
	repos     GenerationRepositories
	tx        txProvider
	cache     *CacheService
	notifier  generationNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleGenerationConfig
}

// NewScheduleGenerationService wires generator dependencies. cache, notifier and
// metrics are optional.
func NewScheduleGenerationService(
	repos GenerationRepositories,
	tx txProvider,
	cache *CacheService,
	notifier generationNotifier,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGenerationConfig,
) *ScheduleGenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxPeriodDays <= 0 {
		cfg.MaxPeriodDays = defaultMaxPeriodDays
	}
	return &ScheduleGenerationService{
		repos:     repos,
		tx:        tx,
		cache:     cache,
		notifier:  notifier,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate validates the period, records a run and either places every
// unscheduled course or, in dry-run mode, only classifies them.
//
// Invalid input is rejected before any run row exists. Once the run row is
// written, engine failures are reported as a FAILED run rather than an error;
// the entries of a failed run are rolled back with it. Runs are serialised by a
// transaction-scoped advisory lock.
func (s *ScheduleGenerationService) Generate(ctx context.Context, req dto.GenerateScheduleRequest, executedBy string) (*dto.GenerationResult, error) {
	start, end, err := s.validatePeriod(req)
	if err != nil {
		return nil, err
	}
	began := time.Now()

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start generation")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.repos.Runs.AcquireLock(ctx, tx, s.cfg.LockKey); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire generation lock")
	}

	run := &models.GenerationRun{
		ExecutedBy:  executedBy,
		Status:      models.GenerationStatusRunning,
		Message:     runStartedMessage,
		PeriodStart: models.NewDate(start),
		PeriodEnd:   models.NewDate(end),
		DryRun:      req.DryRun,
		Force:       req.Force,
		Params:      req.Params,
	}
	if err := s.repos.Runs.Create(ctx, tx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record generation run")
	}
	if err := s.repos.Runs.Savepoint(ctx, tx, generationSavepoint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record generation run")
	}

	failures, total, runErr := s.execute(ctx, tx, req.DryRun, start, end)
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, appErrors.Wrap(ctxErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation cancelled")
		}
		s.logger.Error("schedule generation failed", zap.String("run_id", run.ID), zap.Error(runErr))
		if err := s.repos.Runs.RollbackToSavepoint(ctx, tx, generationSavepoint); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to roll back generation")
		}
		run.Status = models.GenerationStatusFailed
		run.Message = runErr.Error()
		run.TotalGenerated = 0
		failures = nil
	} else {
		run.Status = models.GenerationStatusSuccess
		run.TotalGenerated = total
		run.Message = successMessage(total, len(failures))
	}

	if err := s.repos.Runs.Finalize(ctx, tx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalize generation run")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit generation run")
	}
	committed = true

	if failures == nil {
		failures = []dto.UnavailabilityRecord{}
	}
	s.afterRun(ctx, run, len(failures), time.Since(began))

	return &dto.GenerationResult{
		GenerationRun:                   *run,
		CoursesWithoutAvailability:      failures,
		TotalCoursesWithoutAvailability: len(failures),
	}, nil
}

func (s *ScheduleGenerationService) validatePeriod(req dto.GenerateScheduleRequest) (time.Time, time.Time, error) {
	if req.PeriodStart == "" || req.PeriodEnd == "" {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "periodStart y periodEnd son obligatorios")
	}
	if err := s.validator.Struct(req); err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	start, err := time.Parse(dateLayout, req.PeriodStart)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "periodStart must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, req.PeriodEnd)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "periodEnd must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "periodEnd no puede ser anterior a periodStart")
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days > s.cfg.MaxPeriodDays {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("El rango máximo permitido es %d días", s.cfg.MaxPeriodDays))
	}
	return start, end, nil
}

// execute runs the engine inside the open transaction and returns the
// unplaceable courses plus the run total: entries created, or in dry-run mode
// the number of unscheduled courses.
func (s *ScheduleGenerationService) execute(ctx context.Context, exec sqlx.ExtContext, dryRun bool, start, end time.Time) ([]dto.UnavailabilityRecord, int, error) {
	courses, err := s.unscheduledCourses(ctx)
	if err != nil {
		return nil, 0, err
	}
	engine := newAssignmentEngine(s.repos, periodWeekdays(start, end))

	if dryRun {
		for _, course := range courses {
			if err := engine.simulate(ctx, course); err != nil {
				return nil, 0, err
			}
		}
		return engine.failures, len(courses), nil
	}

	for _, course := range courses {
		if err := engine.assign(ctx, course); err != nil {
			return nil, 0, err
		}
	}
	created := engine.created()
	if err := s.repos.Schedules.BulkCreateWithTx(ctx, exec, created); err != nil {
		return nil, 0, err
	}
	s.logger.Info("schedule generation placed courses",
		zap.Int("unscheduled", len(courses)),
		zap.Int("created", len(created)),
		zap.Int("unassignable", len(engine.failures)),
	)
	return engine.failures, len(created), nil
}

// unscheduledCourses returns courses, by name, that hold no schedule entry.
func (s *ScheduleGenerationService) unscheduledCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repos.Courses.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		entries, err := s.repos.Schedules.ListByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			pending = append(pending, course)
		}
	}
	return pending, nil
}

func successMessage(generated, unassignable int) string {
	if unassignable == 0 {
		return fmt.Sprintf("Generación completada exitosamente. %d horarios generados.", generated)
	}
	return fmt.Sprintf("Generación completada. %d horarios generados, %d cursos sin disponibilidad de profesores.", generated, unassignable)
}

// afterRun handles side effects of a sealed run. None of them can change the result.
func (s *ScheduleGenerationService) afterRun(ctx context.Context, run *models.GenerationRun, unassignable int, elapsed time.Duration) {
	s.metrics.ObserveGenerationRun(string(run.Status), run.DryRun, run.TotalGenerated, unassignable, elapsed)

	if err := s.cache.Invalidate(ctx, historyCachePattern); err != nil {
		s.logger.Warn("failed to invalidate history cache", zap.Error(err))
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, dto.GenerationEvent{
			RunID:                           run.ID,
			Status:                          run.Status,
			ExecutedBy:                      run.ExecutedBy,
			TotalGenerated:                  run.TotalGenerated,
			TotalCoursesWithoutAvailability: unassignable,
			DryRun:                          run.DryRun,
			Message:                         run.Message,
		})
	}

	s.logger.Info("schedule generation finished",
		zap.String("run_id", run.ID),
		zap.String("status", string(run.Status)),
		zap.Int("total_generated", run.TotalGenerated),
		zap.Int("unassignable", unassignable),
		zap.Bool("dry_run", run.DryRun),
		zap.Duration("elapsed", elapsed),
	)
}

type historyPage struct {
	Runs  []models.GenerationRun `json:"runs"`
	Total int                    `json:"total"`
}

// History lists runs newest first. Pages are cached until the next run.
func (s *ScheduleGenerationService) History(ctx context.Context, query dto.HistoryQuery) ([]models.GenerationRun, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid history query")
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.Size
	if size < 1 {
		size = defaultHistorySize
	}

	key := fmt.Sprintf("schedule_history:p%d:s%d", page, size)
	var cached historyPage
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached.Runs, &models.Pagination{Page: page, PageSize: size, TotalCount: cached.Total}, nil
	}

	runs, total, err := s.repos.Runs.List(ctx, page, size)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list generation history")
	}
	if runs == nil {
		runs = []models.GenerationRun{}
	}
	_ = s.cache.Set(ctx, key, historyPage{Runs: runs, Total: total}, s.cfg.HistoryTTL)

	return runs, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
