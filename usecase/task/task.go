package task

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/pkg/logger"
	"github.com/fastygo/planner/repository"
)

type UseCase struct {
	tasks     repository.TaskRepository
	locker    repository.ScheduleLocker
	conflicts *ConflictChecker
	logger    *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	locker repository.ScheduleLocker,
	conflicts *ConflictChecker,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conflicts == nil {
		conflicts = NewConflictChecker(tasks, false, logger)
	}
	return &UseCase{
		tasks:     tasks,
		locker:    locker,
		conflicts: conflicts,
		logger:    logger,
	}
}

// ListTasks returns the user's tasks ordered by date then start time,
// optionally narrowed to a single date.
func (uc *UseCase) ListTasks(ctx context.Context, userID, date string) ([]domain.Task, error) {
	date = strings.TrimSpace(date)
	if date != "" && !domain.ValidateDate(date) {
		return nil, domain.NewValidationError(domain.MsgDateFormat, []string{domain.MsgDateFormat})
	}

	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{UserID: userID, Date: date})
	if err != nil {
		return nil, storageError("failed to load tasks", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (uc *UseCase) GetTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storageError("failed to load task", err)
	}
	return task, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, userID string, in domain.TaskInput) (*domain.Task, error) {
	in = trimInput(in)
	if errs := in.Validate(); len(errs) > 0 {
		return nil, domain.NewValidationError("validation failed", errs)
	}

	release, err := uc.lock(ctx, userID, in.Date)
	if err != nil {
		return nil, err
	}
	defer release()

	proposed := domain.TimeRange{Start: in.StartTime, End: in.EndTime}
	existing, err := uc.conflicts.FindConflict(ctx, userID, in.Date, proposed, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError(existing)
	}

	created, err := uc.tasks.Create(ctx, in.NewTask(userID))
	if err != nil {
		return nil, storageError("failed to save task", err)
	}

	logger.WithRequestID(ctx, uc.logger).Debug("task created",
		zap.String("task_id", created.ID),
		zap.String("user_id", userID),
	)
	return created, nil
}

// UpdateTask merges patch into the task as reloaded under the schedule lock
// for its date and, on a move, the target date. Only a patch touching date or
// times re-runs the overlap check, and the task never conflicts with itself.
func (uc *UseCase) UpdateTask(ctx context.Context, userID, id string, patch domain.TaskPatch) (*domain.Task, error) {
	patch = trimPatch(patch)
	if errs := patch.Validate(); len(errs) > 0 {
		return nil, domain.NewValidationError("validation failed", errs)
	}

	current, err := uc.tasks.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storageError("failed to load task", err)
	}
	if patch.Empty() {
		return current, nil
	}

	current, release, err := uc.lockTask(ctx, userID, id, current, patch)
	if err != nil {
		return nil, err
	}
	defer release()

	merged := patch.Apply(*current)
	if errs := domain.ValidateMerged(merged); len(errs) > 0 {
		return nil, domain.NewValidationError("validation failed", errs)
	}

	if patch.Reschedules() {
		existing, err := uc.conflicts.FindConflict(ctx, userID, merged.Date, merged.Range(), merged.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.NewConflictError(existing)
		}
	}

	if err := uc.tasks.Update(ctx, &merged); err != nil {
		return nil, storageError("failed to update task", err)
	}
	return &merged, nil
}

// lockTask locks the dates an update of current touches and reloads the task
// under them. A task moved to another date in between is locked again on its
// new date.
func (uc *UseCase) lockTask(
	ctx context.Context,
	userID, id string,
	current *domain.Task,
	patch domain.TaskPatch,
) (*domain.Task, func(), error) {
	for {
		dates := patchDates(current.Date, patch)
		release, err := uc.lock(ctx, userID, dates...)
		if err != nil {
			return nil, nil, err
		}

		reloaded, err := uc.tasks.GetByID(ctx, userID, id)
		if err != nil {
			release()
			return nil, nil, storageError("failed to load task", err)
		}
		if reloaded.Date == current.Date {
			return reloaded, release, nil
		}
		release()
		current = reloaded
	}
}

func patchDates(date string, patch domain.TaskPatch) []string {
	dates := []string{date}
	if patch.Date != nil && *patch.Date != date {
		dates = append(dates, *patch.Date)
	}
	return dates
}

func (uc *UseCase) DeleteTask(ctx context.Context, userID, id string) error {
	if err := uc.tasks.Delete(ctx, userID, id); err != nil {
		return storageError("failed to delete task", err)
	}
	logger.WithRequestID(ctx, uc.logger).Debug("task deleted",
		zap.String("task_id", id),
		zap.String("user_id", userID),
	)
	return nil
}

// lock takes the schedule lock for every date in sorted order and returns a
// release that frees them in reverse.
func (uc *UseCase) lock(ctx context.Context, userID string, dates ...string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	sort.Strings(dates)
	releases := make([]func(), 0, len(dates))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, date := range dates {
		release, err := uc.locker.Lock(ctx, userID, date)
		if err != nil {
			releaseAll()
			logger.WithRequestID(ctx, uc.logger).Warn("schedule lock unavailable",
				zap.String("user_id", userID),
				zap.String("date", date),
				zap.Error(err),
			)
			return nil, domain.WrapError(domain.ErrCodeInternal, "schedule is busy, try again", err)
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

func storageError(message string, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeInternal, message, err)
}

func trimInput(in domain.TaskInput) domain.TaskInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.EndTime = strings.TrimSpace(in.EndTime)
	in.Desc = strings.TrimSpace(in.Desc)
	return in
}

func trimPatch(p domain.TaskPatch) domain.TaskPatch {
	for _, field := range []**string{&p.Title, &p.Date, &p.StartTime, &p.EndTime, &p.Desc} {
		if *field != nil {
			v := strings.TrimSpace(**field)
			*field = &v
		}
	}
	return p
}
