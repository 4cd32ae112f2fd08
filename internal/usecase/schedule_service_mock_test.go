package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
)

type mockBattleRepository struct {
	mock.Mock
}

func (m *mockBattleRepository) GetByID(ctx context.Context, id battleid.ID) (battle.Window, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(battle.Window), args.Bool(1), args.Error(2)
}

func (m *mockBattleRepository) Create(ctx context.Context, window battle.Window) (battle.Window, error) {
	args := m.Called(ctx, window)
	return args.Get(0).(battle.Window), args.Error(1)
}

func (m *mockBattleRepository) List(ctx context.Context) ([]battle.Window, error) {
	args := m.Called(ctx)
	windows, _ := args.Get(0).([]battle.Window)
	return windows, args.Error(1)
}

func TestScheduleService_CreateMasterBattle_PassesWindowToRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	battleRepo := &mockBattleRepository{}
	service := NewScheduleService(battleRepo, &stubSettingRepository{}, logging.NewNop())

	startDate := time.Date(2025, 3, 10, 0, 0, 0, 0, battleid.OfficialZone)
	battleRepo.
		On("Create", ctx, mock.MatchedBy(func(w battle.Window) bool {
			return w.ID == "20250310" &&
				w.CreatedBy != nil && *w.CreatedBy == "admin-1" &&
				w.Notes == "season opener" &&
				w.EndAt.Equal(time.Date(2025, 3, 12, 23, 59, 59, 0, battleid.OfficialZone))
		})).
		Return(battle.Window{ID: "20250310"}, nil).
		Once()

	got, err := service.CreateMasterBattle(ctx, startDate, "admin-1", "season opener")
	if err != nil {
		t.Fatalf("create master battle: %v", err)
	}
	if got.ID != "20250310" {
		t.Fatalf("unexpected battle id: %s", got.ID)
	}
	battleRepo.AssertExpectations(t)
}

func TestScheduleService_CreateMasterBattle_SurfacesDuplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	battleRepo := &mockBattleRepository{}
	service := NewScheduleService(battleRepo, &stubSettingRepository{}, logging.NewNop())

	battleRepo.
		On("Create", ctx, mock.AnythingOfType("battle.Window")).
		Return(battle.Window{}, battle.ErrAlreadyExists).
		Once()

	startDate := time.Date(2025, 3, 10, 0, 0, 0, 0, battleid.OfficialZone)
	_, err := service.CreateMasterBattle(ctx, startDate, "admin-1", "")
	if !errors.Is(err, battle.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	battleRepo.AssertExpectations(t)
}
