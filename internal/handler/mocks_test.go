package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/forgo/roster/internal/middleware"
	"github.com/forgo/roster/internal/model"
	"github.com/forgo/roster/pkg/jwt"
)

// ============================================================================
// Mock services
// ============================================================================

type mockContractService struct {
	listFunc   func(ctx context.Context, requester model.Requester, filter *model.ContractStatus) ([]model.ContractView, error)
	getFunc    func(ctx context.Context, requester model.Requester, id string) (*model.ContractView, error)
	createFunc func(ctx context.Context, requester model.Requester, req *model.CreateContractRequest) (*model.ContractView, error)
	updateFunc func(ctx context.Context, requester model.Requester, id string, req *model.UpdateContractRequest) (*model.ContractView, error)
	deleteFunc func(ctx context.Context, requester model.Requester, id string, expectedVersion int) error
}

func (m *mockContractService) List(ctx context.Context, requester model.Requester, filter *model.ContractStatus) ([]model.ContractView, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, requester, filter)
	}
	return []model.ContractView{}, nil
}

func (m *mockContractService) Get(ctx context.Context, requester model.Requester, id string) (*model.ContractView, error) {
	return m.getFunc(ctx, requester, id)
}

func (m *mockContractService) Create(ctx context.Context, requester model.Requester, req *model.CreateContractRequest) (*model.ContractView, error) {
	return m.createFunc(ctx, requester, req)
}

func (m *mockContractService) Update(ctx context.Context, requester model.Requester, id string, req *model.UpdateContractRequest) (*model.ContractView, error) {
	return m.updateFunc(ctx, requester, id, req)
}

func (m *mockContractService) Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error {
	return m.deleteFunc(ctx, requester, id, expectedVersion)
}

type mockPlayerService struct {
	listFunc   func(ctx context.Context) ([]*model.Player, error)
	getFunc    func(ctx context.Context, requester model.Requester, id string) (*model.PlayerDetail, error)
	createFunc func(ctx context.Context, requester model.Requester, req *model.CreatePlayerRequest) (*model.Player, error)
	updateFunc func(ctx context.Context, requester model.Requester, id string, req *model.UpdatePlayerRequest) (*model.Player, error)
	deleteFunc func(ctx context.Context, requester model.Requester, id string, expectedVersion int) error
}

func (m *mockPlayerService) List(ctx context.Context) ([]*model.Player, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*model.Player{}, nil
}

func (m *mockPlayerService) Get(ctx context.Context, requester model.Requester, id string) (*model.PlayerDetail, error) {
	return m.getFunc(ctx, requester, id)
}

func (m *mockPlayerService) Create(ctx context.Context, requester model.Requester, req *model.CreatePlayerRequest) (*model.Player, error) {
	return m.createFunc(ctx, requester, req)
}

func (m *mockPlayerService) Update(ctx context.Context, requester model.Requester, id string, req *model.UpdatePlayerRequest) (*model.Player, error) {
	return m.updateFunc(ctx, requester, id, req)
}

func (m *mockPlayerService) Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error {
	return m.deleteFunc(ctx, requester, id, expectedVersion)
}

type mockTeamService struct {
	listFunc   func(ctx context.Context) ([]*model.Team, error)
	getFunc    func(ctx context.Context, requester model.Requester, id string) (*model.TeamDetail, error)
	createFunc func(ctx context.Context, requester model.Requester, req *model.CreateTeamRequest) (*model.Team, error)
	updateFunc func(ctx context.Context, requester model.Requester, id string, req *model.UpdateTeamRequest) (*model.Team, error)
	deleteFunc func(ctx context.Context, requester model.Requester, id string, expectedVersion int) error
}

func (m *mockTeamService) List(ctx context.Context) ([]*model.Team, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*model.Team{}, nil
}

func (m *mockTeamService) Get(ctx context.Context, requester model.Requester, id string) (*model.TeamDetail, error) {
	return m.getFunc(ctx, requester, id)
}

func (m *mockTeamService) Create(ctx context.Context, requester model.Requester, req *model.CreateTeamRequest) (*model.Team, error) {
	return m.createFunc(ctx, requester, req)
}

func (m *mockTeamService) Update(ctx context.Context, requester model.Requester, id string, req *model.UpdateTeamRequest) (*model.Team, error) {
	return m.updateFunc(ctx, requester, id, req)
}

func (m *mockTeamService) Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error {
	return m.deleteFunc(ctx, requester, id, expectedVersion)
}

type mockDashboardService struct {
	statsFunc func(ctx context.Context, requester model.Requester) (*model.DashboardStats, error)
}

func (m *mockDashboardService) Stats(ctx context.Context, requester model.Requester) (*model.DashboardStats, error) {
	return m.statsFunc(ctx, requester)
}

type mockAuthService struct {
	loginFunc         func(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	meFunc            func(ctx context.Context, claims *jwt.Claims) (*model.MeResponse, error)
	updateProfileFunc func(ctx context.Context, claims *jwt.Claims, req *model.UpdateProfileRequest) (*model.Account, error)
}

func (m *mockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	return m.loginFunc(ctx, req)
}

func (m *mockAuthService) Me(ctx context.Context, claims *jwt.Claims) (*model.MeResponse, error) {
	return m.meFunc(ctx, claims)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, claims *jwt.Claims, req *model.UpdateProfileRequest) (*model.Account, error) {
	return m.updateProfileFunc(ctx, claims, req)
}

type mockAccountService struct {
	listFunc   func(ctx context.Context, requester model.Requester) ([]*model.Account, error)
	getFunc    func(ctx context.Context, requester model.Requester, id string) (*model.AccountDetail, error)
	createFunc func(ctx context.Context, requester model.Requester, req *model.CreateAccountRequest) (*model.Account, error)
	updateFunc func(ctx context.Context, requester model.Requester, id string, req *model.UpdateAccountRequest) (*model.Account, error)
	deleteFunc func(ctx context.Context, requester model.Requester, id string, expectedVersion int) error
}

func (m *mockAccountService) List(ctx context.Context, requester model.Requester) ([]*model.Account, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, requester)
	}
	return []*model.Account{}, nil
}

func (m *mockAccountService) Get(ctx context.Context, requester model.Requester, id string) (*model.AccountDetail, error) {
	return m.getFunc(ctx, requester, id)
}

func (m *mockAccountService) Create(ctx context.Context, requester model.Requester, req *model.CreateAccountRequest) (*model.Account, error) {
	return m.createFunc(ctx, requester, req)
}

func (m *mockAccountService) Update(ctx context.Context, requester model.Requester, id string, req *model.UpdateAccountRequest) (*model.Account, error) {
	return m.updateFunc(ctx, requester, id, req)
}

func (m *mockAccountService) Delete(ctx context.Context, requester model.Requester, id string, expectedVersion int) error {
	return m.deleteFunc(ctx, requester, id, expectedVersion)
}

// ============================================================================
// Fixtures
// ============================================================================

var (
	anonymous = model.AnonymousRequester{}
	staff     = model.StaffRequester{AccountID: "account:staff"}
	admin     = model.AdminRequester{AccountID: "account:admin"}
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func contractView(id string, version int) *model.ContractView {
	return &model.ContractView{
		Contract: model.Contract{
			ID:        id,
			PlayerID:  "player:1",
			TeamID:    "team:1",
			StartDate: day(2025, time.January, 1),
			EndDate:   day(2026, time.December, 31),
			Version:   version,
		},
		Status: model.ContractStatusActive,
		Player: model.PlayerSummary{ID: "player:1", Name: "João Silva"},
		Team:   model.TeamSummary{ID: "team:1", Name: "FC Porto"},
	}
}

// withRequester attaches a resolved requester the way the auth middleware does
func withRequester(r *http.Request, requester model.Requester) *http.Request {
	ctx := r.Context()
	if accountID := model.RequesterAccountID(requester); accountID != "" {
		ctx = context.WithValue(ctx, middleware.AccountIDKey, accountID)
	}
	ctx = context.WithValue(ctx, middleware.RequesterKey, requester)
	return r.WithContext(ctx)
}

// serve routes a request through a mux so path values are populated
func serve(pattern string, h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, r)
	return rr
}
