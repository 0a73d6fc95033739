package insight

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"journal/internal/habit"
	"journal/internal/logger"
	"journal/internal/mood"
)

func testService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&mood.Record{}, &habit.Habit{}, &habit.Completion{}, &Insight{}))

	log := logger.Nop()
	return &Service{
		DB:     gdb,
		Log:    log,
		Moods:  &mood.Service{DB: gdb, Log: log},
		Habits: &habit.Service{DB: gdb, Log: log},
	}
}

func seedMood(t *testing.T, svc *Service, userID uint64, date time.Time, category string, intensity int) {
	t.Helper()
	require.NoError(t, svc.DB.Create(&mood.Record{
		UserID: userID, Date: date, Category: category, Intensity: intensity,
	}).Error)
}

func TestGenerateEmptyPeriodRejected(t *testing.T) {
	svc := testService(t)
	_, err := svc.Generate(context.Background(), 1, PeriodWeek, time.Now())
	assert.ErrorIs(t, err, ErrNoMoodData)
}

func TestGenerateInvalidPeriod(t *testing.T) {
	svc := testService(t)
	_, err := svc.Generate(context.Background(), 1, "fortnight", time.Now())
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestGenerateWeekSummary(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	seedMood(t, svc, 1, now.AddDate(0, 0, -1), "good", 7)
	seedMood(t, svc, 1, now.AddDate(0, 0, -2), "good", 5)
	seedMood(t, svc, 1, now.AddDate(0, 0, -3), "sad", 3)
	// outside the window
	seedMood(t, svc, 1, now.AddDate(0, 0, -10), "terrible", 1)

	ins, err := svc.Generate(ctx, 1, PeriodWeek, now)
	require.NoError(t, err)

	assert.Equal(t, "5.00", ins.AverageMoodScore)
	assert.Equal(t, "good", ins.DominantCategory)
	assert.Equal(t,
		"During this week, your dominant mood was good with an average intensity of 5.00/10. You tracked 3 mood entries.",
		ins.Summary)

	counts := ins.MoodCounts.Data()
	assert.Equal(t, []mood.CategoryCount{
		{Category: mood.CategoryExcellent, Count: 0},
		{Category: mood.CategoryGood, Count: 2},
		{Category: mood.CategoryNeutral, Count: 0},
		{Category: mood.CategorySad, Count: 1},
		{Category: mood.CategoryTerrible, Count: 0},
	}, counts)

	// persisted
	var n int64
	require.NoError(t, svc.DB.Model(&Insight{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestGenerateDominantTieBreaksByDeclarationOrder(t *testing.T) {
	svc := testService(t)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	seedMood(t, svc, 1, now.AddDate(0, 0, -1), "excellent", 5)
	seedMood(t, svc, 1, now.AddDate(0, 0, -2), "good", 5)

	ins, err := svc.Generate(context.Background(), 1, PeriodWeek, now)
	require.NoError(t, err)
	assert.Equal(t, "excellent", ins.DominantCategory)
}

func TestGenerateTopHabitsSnapshot(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	seedMood(t, svc, 1, now.AddDate(0, 0, -1), "neutral", 5)

	var ids []uint64
	for _, name := range []string{"read", "run", "meditate", "journal"} {
		h, err := svc.Habits.Create(ctx, 1, habit.CreateInput{Name: name})
		require.NoError(t, err)
		ids = append(ids, h.ID)
	}
	// archived habits never appear in the snapshot
	require.NoError(t, svc.Habits.Archive(ctx, 1, ids[0]))

	ins, err := svc.Generate(ctx, 1, PeriodWeek, now)
	require.NoError(t, err)

	refs := ins.TopHabits.Data()
	require.Len(t, refs, 3)
	assert.Equal(t, []HabitRef{
		{ID: ids[1], Name: "run"},
		{ID: ids[2], Name: "meditate"},
		{ID: ids[3], Name: "journal"},
	}, refs)
}

func TestGenerateToleratesMalformedCategory(t *testing.T) {
	svc := testService(t)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	seedMood(t, svc, 1, now.AddDate(0, 0, -1), "", 4)
	seedMood(t, svc, 1, now.AddDate(0, 0, -2), "elated", 6)
	seedMood(t, svc, 1, now.AddDate(0, 0, -3), "neutral", 5)

	ins, err := svc.Generate(context.Background(), 1, PeriodWeek, now)
	require.NoError(t, err)

	counts := ins.MoodCounts.Data()
	require.Len(t, counts, 6)
	assert.Equal(t, mood.CategoryCount{Category: mood.CategoryUnknown, Count: 2}, counts[5])
	// known categories still win ties over the trailing unknown bucket at
	// equal counts, but here unknown is strictly larger
	assert.Equal(t, string(mood.CategoryUnknown), ins.DominantCategory)
	assert.Equal(t, "5.00", ins.AverageMoodScore)
}

func TestFormatScoreRounding(t *testing.T) {
	cases := []struct {
		sum, n int
		want   string
	}{
		{15, 3, "5.00"},
		{16, 3, "5.33"},
		{17, 3, "5.67"},
		{1, 8, "0.13"}, // 0.125 rounds half away from zero
		{7, 2, "3.50"},
		{10, 1, "10.00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatScore(c.sum, c.n), "sum=%d n=%d", c.sum, c.n)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	seedMood(t, svc, 1, now.AddDate(0, 0, -1), "good", 6)

	first, err := svc.Generate(ctx, 1, PeriodWeek, now)
	require.NoError(t, err)
	second, err := svc.Generate(ctx, 1, PeriodMonth, now)
	require.NoError(t, err)

	got, err := svc.Recent(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}
