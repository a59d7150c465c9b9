package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pawpal/internal/model"
)

var dbCounter atomic.Int64

// newTestDB opens a uniquely named in-memory database so tests stay isolated
// while gorm's connection pool still sees the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := NewDB(dsn)
	require.NoError(t, err)
	return db
}

func TestUpsertFromTelegram(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.UpsertFromTelegram(ctx, 1001, "Ann", "Lee", "annlee")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	// Second upsert updates the profile in place instead of creating a row.
	updated, err := repo.UpsertFromTelegram(ctx, 1001, "Anna", "Lee", "annlee")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	users, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Anna", users[0].FirstName)
}

func TestSetAvailability(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.UpsertFromTelegram(ctx, 1001, "Ann", "", "")
	require.NoError(t, err)

	require.NoError(t, repo.SetAvailability(ctx, user, []string{"09:00-12:00", "14:00-18:00"}))

	reloaded, err := repo.LoadWithPets(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00-12:00", "14:00-18:00"}, reloaded.AvailabilityList())
}

func TestPetAndTaskRoundTrip(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db)
	petRepo := NewPetRepository(db)
	taskRepo := NewTaskRepository(db)
	ctx := context.Background()

	user, err := userRepo.UpsertFromTelegram(ctx, 1001, "Ann", "", "")
	require.NoError(t, err)

	pet := model.Pet{UserID: user.ID, PublicID: "pet-1", Name: "Rex", Species: "dog", Age: 4, HealthNotes: "hip dysplasia"}
	require.NoError(t, petRepo.Create(ctx, &pet))

	nextDue := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	task := model.Task{
		PetID:           pet.ID,
		PublicID:        "task-1",
		Name:            "Joint meds",
		DurationMinutes: 10,
		Priority:        5,
		Category:        "medication",
		Medical:         true,
		PreferredTime:   model.PreferMorning,
		Recurring:       true,
		Pattern:         model.RecurEveryOtherDay,
		NextDue:         &nextDue,
	}
	require.NoError(t, taskRepo.Create(ctx, &task))

	loaded, err := userRepo.LoadWithPets(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Pets, 1)
	require.Len(t, loaded.Pets[0].Tasks, 1)

	got := loaded.Pets[0].Tasks[0]
	assert.Equal(t, "Joint meds", got.Name)
	assert.Equal(t, 10, got.DurationMinutes)
	assert.Equal(t, 5, got.Priority)
	assert.True(t, got.Medical)
	assert.Equal(t, model.PreferMorning, got.PreferredTime)
	assert.Equal(t, model.RecurEveryOtherDay, got.Pattern)
	require.NotNil(t, got.NextDue)
	assert.True(t, got.NextDue.Equal(nextDue))
}

func TestTaskFindByIDScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db)
	petRepo := NewPetRepository(db)
	taskRepo := NewTaskRepository(db)
	ctx := context.Background()

	owner, err := userRepo.UpsertFromTelegram(ctx, 1001, "Ann", "", "")
	require.NoError(t, err)
	stranger, err := userRepo.UpsertFromTelegram(ctx, 1002, "Bob", "", "")
	require.NoError(t, err)

	pet := model.Pet{UserID: owner.ID, PublicID: "pet-1", Name: "Rex"}
	require.NoError(t, petRepo.Create(ctx, &pet))
	task := model.Task{PetID: pet.ID, PublicID: "task-1", Name: "Walk", DurationMinutes: 30, Priority: 3}
	require.NoError(t, taskRepo.Create(ctx, &task))

	found, err := taskRepo.FindByID(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Walk", found.Name)

	_, err = taskRepo.FindByID(ctx, stranger.ID, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = taskRepo.Delete(ctx, stranger.ID, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, taskRepo.Delete(ctx, owner.ID, task.ID))
	_, err = taskRepo.FindByID(ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestScheduleSaveAndLoad(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db)
	petRepo := NewPetRepository(db)
	taskRepo := NewTaskRepository(db)
	schedRepo := NewScheduleRepository(db)
	ctx := context.Background()

	user, err := userRepo.UpsertFromTelegram(ctx, 1001, "Ann", "", "")
	require.NoError(t, err)
	pet := model.Pet{UserID: user.ID, PublicID: "pet-1", Name: "Rex"}
	require.NoError(t, petRepo.Create(ctx, &pet))

	walk := model.Task{PetID: pet.ID, PublicID: "task-1", Name: "Walk", DurationMinutes: 60, Priority: 3}
	pills := model.Task{PetID: pet.ID, PublicID: "task-2", Name: "Pills", DurationMinutes: 10, Priority: 5, Medical: true}
	require.NoError(t, taskRepo.Create(ctx, &walk))
	require.NoError(t, taskRepo.Create(ctx, &pills))

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	sched := &model.DailySchedule{
		UserID:      user.ID,
		Date:        day,
		Explanation: "test plan",
		Tasks: []model.ScheduledTask{
			{TaskID: pills.ID, PetID: pet.ID, Start: model.ClockTime(9, 0), End: model.ClockTime(9, 10), Status: model.StatusPending, Date: day},
			{TaskID: walk.ID, PetID: pet.ID, Start: model.ClockTime(9, 5), End: model.ClockTime(10, 5), Status: model.StatusPending, Date: day},
		},
	}
	sched.Conflicts = []model.ConflictPair{{First: &sched.Tasks[0], Second: &sched.Tasks[1]}}

	require.NoError(t, schedRepo.Save(ctx, sched))

	loaded, err := schedRepo.Load(ctx, user.ID, day)
	require.NoError(t, err)
	require.Len(t, loaded.Tasks, 2)
	assert.Equal(t, "test plan", loaded.Explanation)

	// Placements come back linked to their source tasks.
	st := loaded.FindByTaskID(pills.ID)
	require.NotNil(t, st)
	require.NotNil(t, st.Task)
	assert.Equal(t, "Pills", st.Task.Name)
	assert.Equal(t, model.ClockTime(9, 0), st.Start)

	// Conflict pairs are rebuilt pointing into the loaded placements.
	require.Len(t, loaded.Conflicts, 1)
	assert.Equal(t, pills.ID, loaded.Conflicts[0].First.TaskID)
	assert.Equal(t, walk.ID, loaded.Conflicts[0].Second.TaskID)
}

func TestScheduleSaveReplacesExisting(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db)
	petRepo := NewPetRepository(db)
	taskRepo := NewTaskRepository(db)
	schedRepo := NewScheduleRepository(db)
	ctx := context.Background()

	user, err := userRepo.UpsertFromTelegram(ctx, 1001, "Ann", "", "")
	require.NoError(t, err)
	pet := model.Pet{UserID: user.ID, PublicID: "pet-1", Name: "Rex"}
	require.NoError(t, petRepo.Create(ctx, &pet))
	walk := model.Task{PetID: pet.ID, PublicID: "task-1", Name: "Walk", DurationMinutes: 60, Priority: 3}
	require.NoError(t, taskRepo.Create(ctx, &walk))

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	first := &model.DailySchedule{
		UserID: user.ID,
		Date:   day,
		Tasks: []model.ScheduledTask{
			{TaskID: walk.ID, PetID: pet.ID, Start: model.ClockTime(9, 0), End: model.ClockTime(10, 0), Status: model.StatusPending, Date: day},
		},
	}
	require.NoError(t, schedRepo.Save(ctx, first))

	second := &model.DailySchedule{
		UserID: user.ID,
		Date:   day,
		Tasks: []model.ScheduledTask{
			{TaskID: walk.ID, PetID: pet.ID, Start: model.ClockTime(14, 0), End: model.ClockTime(15, 0), Status: model.StatusPending, Date: day},
		},
	}
	require.NoError(t, schedRepo.Save(ctx, second))

	loaded, err := schedRepo.Load(ctx, user.ID, day)
	require.NoError(t, err)
	require.Len(t, loaded.Tasks, 1)
	assert.Equal(t, model.ClockTime(14, 0), loaded.Tasks[0].Start)

	var count int64
	require.NoError(t, db.Model(&model.DailySchedule{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdatePlacementStatus(t *testing.T) {
	db := newTestDB(t)
	userRepo := NewUserRepository(db)
	petRepo := NewPetRepository(db)
	taskRepo := NewTaskRepository(db)
	schedRepo := NewScheduleRepository(db)
	ctx := context.Background()

	user, err := userRepo.UpsertFromTelegram(ctx, 1001, "Ann", "", "")
	require.NoError(t, err)
	pet := model.Pet{UserID: user.ID, PublicID: "pet-1", Name: "Rex"}
	require.NoError(t, petRepo.Create(ctx, &pet))
	walk := model.Task{PetID: pet.ID, PublicID: "task-1", Name: "Walk", DurationMinutes: 60, Priority: 3}
	require.NoError(t, taskRepo.Create(ctx, &walk))

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	sched := &model.DailySchedule{
		UserID: user.ID,
		Date:   day,
		Tasks: []model.ScheduledTask{
			{TaskID: walk.ID, PetID: pet.ID, Start: model.ClockTime(9, 0), End: model.ClockTime(10, 0), Status: model.StatusPending, Date: day},
		},
	}
	require.NoError(t, schedRepo.Save(ctx, sched))

	st := sched.FindByTaskID(walk.ID)
	require.NotNil(t, st)
	st.Status = model.StatusCompleted
	require.NoError(t, schedRepo.UpdatePlacementStatus(ctx, st))

	loaded, err := schedRepo.Load(ctx, user.ID, day)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, loaded.Tasks[0].Status)
}

func TestScheduleLoadMissing(t *testing.T) {
	db := newTestDB(t)
	schedRepo := NewScheduleRepository(db)

	_, err := schedRepo.Load(context.Background(), 1, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
