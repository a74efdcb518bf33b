package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// UpdateName updates only the user's name by Auth0 ID
func (m *MockUserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockHouseholdRepository is a mock implementation of domain.HouseholdRepository
type MockHouseholdRepository struct {
	Households    map[int32]*domain.Household
	ByUserID      map[uuid.UUID]*domain.Household
	ByUserAuth0ID map[string]*domain.Household
	NextID        int32
}

// NewMockHouseholdRepository creates a new MockHouseholdRepository
func NewMockHouseholdRepository() *MockHouseholdRepository {
	return &MockHouseholdRepository{
		Households:    make(map[int32]*domain.Household),
		ByUserID:      make(map[uuid.UUID]*domain.Household),
		ByUserAuth0ID: make(map[string]*domain.Household),
		NextID:        1,
	}
}

// GetByID retrieves a household by ID
func (m *MockHouseholdRepository) GetByID(id int32) (*domain.Household, error) {
	if hh, ok := m.Households[id]; ok {
		return hh, nil
	}
	return nil, domain.ErrHouseholdNotFound
}

// GetByUserID retrieves a household by user ID
func (m *MockHouseholdRepository) GetByUserID(userID uuid.UUID) (*domain.Household, error) {
	if hh, ok := m.ByUserID[userID]; ok {
		return hh, nil
	}
	return nil, domain.ErrHouseholdNotFound
}

// GetByUserAuth0ID retrieves a household by the owning user's Auth0 ID
func (m *MockHouseholdRepository) GetByUserAuth0ID(auth0ID string) (*domain.Household, error) {
	if hh, ok := m.ByUserAuth0ID[auth0ID]; ok {
		return hh, nil
	}
	return nil, domain.ErrHouseholdNotFound
}

// Create creates a new household
func (m *MockHouseholdRepository) Create(household *domain.Household) (*domain.Household, error) {
	household.ID = m.NextID
	m.NextID++
	m.Households[household.ID] = household
	m.ByUserID[household.UserID] = household
	return household, nil
}

// AddHousehold adds a household to the mock repository (helper for tests)
func (m *MockHouseholdRepository) AddHousehold(household *domain.Household, auth0ID string) {
	m.Households[household.ID] = household
	m.ByUserID[household.UserID] = household
	if auth0ID != "" {
		m.ByUserAuth0ID[auth0ID] = household
	}
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	ByHousehold  map[int32][]*domain.Transaction
	NextID       int32
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	ListFn       func(householdID int32, start, end time.Time) ([]*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		ByHousehold:  make(map[int32][]*domain.Transaction),
		NextID:       1,
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = m.NextID
	m.NextID++
	m.Transactions[transaction.ID] = transaction
	m.ByHousehold[transaction.HouseholdID] = append(m.ByHousehold[transaction.HouseholdID], transaction)
	return transaction, nil
}

// GetByID retrieves a transaction by its ID within a household
func (m *MockTransactionRepository) GetByID(householdID int32, id int32) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.HouseholdID != householdID || tx.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

// GetByHousehold retrieves transactions with optional filters and pagination
func (m *MockTransactionRepository) GetByHousehold(householdID int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	transactions := m.ByHousehold[householdID]

	var filtered []*domain.Transaction
	for _, t := range transactions {
		if t.DeletedAt != nil {
			continue
		}
		if filters != nil {
			if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && !t.Date.Before(*filters.EndDate) {
				continue
			}
			if filters.Category != nil && t.Category != *filters.Category {
				continue
			}
		}
		filtered = append(filtered, t)
	}
	if filtered == nil {
		filtered = []*domain.Transaction{}
	}

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	totalItems := int64(len(filtered))
	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start >= int32(len(filtered)) {
		filtered = []*domain.Transaction{}
	} else {
		if end > int32(len(filtered)) {
			end = int32(len(filtered))
		}
		filtered = filtered[start:end]
	}

	return &domain.PaginatedTransactions{
		Data:       filtered,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// ListByDateRange retrieves transactions in [start, end)
func (m *MockTransactionRepository) ListByDateRange(householdID int32, start, end time.Time) ([]*domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(householdID, start, end)
	}
	var result []*domain.Transaction
	for _, t := range m.ByHousehold[householdID] {
		if t.DeletedAt != nil {
			continue
		}
		if !t.Date.Before(start) && t.Date.Before(end) {
			result = append(result, t)
		}
	}
	if result == nil {
		result = []*domain.Transaction{}
	}
	return result, nil
}

// Update updates a transaction
func (m *MockTransactionRepository) Update(householdID int32, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.HouseholdID != householdID || tx.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	tx.Date = data.Date
	tx.Amount = data.Amount
	tx.Category = data.Category
	tx.Merchant = data.Merchant
	tx.Notes = data.Notes
	return tx, nil
}

// SetReceipt links or unlinks a receipt on a transaction
func (m *MockTransactionRepository) SetReceipt(householdID int32, id int32, receiptID *string) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.HouseholdID != householdID || tx.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	tx.ReceiptID = receiptID
	return tx, nil
}

// SoftDelete soft deletes a transaction
func (m *MockTransactionRepository) SoftDelete(householdID int32, id int32) error {
	tx, ok := m.Transactions[id]
	if !ok || tx.HouseholdID != householdID || tx.DeletedAt != nil {
		return domain.ErrTransactionNotFound
	}
	now := time.Now()
	tx.DeletedAt = &now
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.Transactions[transaction.ID] = transaction
	m.ByHousehold[transaction.HouseholdID] = append(m.ByHousehold[transaction.HouseholdID], transaction)
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets     map[int32]*domain.Budget
	ByHousehold map[int32][]*domain.Budget
	NextID      int32
	ListFn      func(householdID int32) ([]*domain.Budget, error)
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets:     make(map[int32]*domain.Budget),
		ByHousehold: make(map[int32][]*domain.Budget),
		NextID:      1,
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	budget.ID = m.NextID
	m.NextID++
	m.Budgets[budget.ID] = budget
	m.ByHousehold[budget.HouseholdID] = append(m.ByHousehold[budget.HouseholdID], budget)
	return budget, nil
}

// GetByID retrieves a budget by its ID within a household
func (m *MockBudgetRepository) GetByID(householdID int32, id int32) (*domain.Budget, error) {
	budget, ok := m.Budgets[id]
	if !ok || budget.HouseholdID != householdID || budget.DeletedAt != nil {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, nil
}

// ListByHousehold retrieves all budgets for a household
func (m *MockBudgetRepository) ListByHousehold(householdID int32) ([]*domain.Budget, error) {
	if m.ListFn != nil {
		return m.ListFn(householdID)
	}
	var active []*domain.Budget
	for _, b := range m.ByHousehold[householdID] {
		if b.DeletedAt == nil {
			active = append(active, b)
		}
	}
	if active == nil {
		active = []*domain.Budget{}
	}
	return active, nil
}

// Update updates a budget
func (m *MockBudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	existing, ok := m.Budgets[budget.ID]
	if !ok || existing.HouseholdID != budget.HouseholdID || existing.DeletedAt != nil {
		return nil, domain.ErrBudgetNotFound
	}
	existing.Category = budget.Category
	existing.Amount = budget.Amount
	return existing, nil
}

// SoftDelete marks a budget as deleted
func (m *MockBudgetRepository) SoftDelete(householdID int32, id int32) error {
	budget, ok := m.Budgets[id]
	if !ok || budget.HouseholdID != householdID || budget.DeletedAt != nil {
		return domain.ErrBudgetNotFound
	}
	now := time.Now()
	budget.DeletedAt = &now
	return nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	m.Budgets[budget.ID] = budget
	m.ByHousehold[budget.HouseholdID] = append(m.ByHousehold[budget.HouseholdID], budget)
}

// MockGoalRepository is a mock implementation of domain.GoalRepository
type MockGoalRepository struct {
	Goals       map[int32]*domain.FinancialGoal
	ByHousehold map[int32][]*domain.FinancialGoal
	NextID      int32
	ListFn      func(householdID int32, status *domain.GoalStatus) ([]*domain.FinancialGoal, error)
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals:       make(map[int32]*domain.FinancialGoal),
		ByHousehold: make(map[int32][]*domain.FinancialGoal),
		NextID:      1,
	}
}

// Create creates a new goal
func (m *MockGoalRepository) Create(goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	goal.ID = m.NextID
	m.NextID++
	m.Goals[goal.ID] = goal
	m.ByHousehold[goal.HouseholdID] = append(m.ByHousehold[goal.HouseholdID], goal)
	return goal, nil
}

// GetByID retrieves a goal by its ID within a household
func (m *MockGoalRepository) GetByID(householdID int32, id int32) (*domain.FinancialGoal, error) {
	goal, ok := m.Goals[id]
	if !ok || goal.HouseholdID != householdID || goal.DeletedAt != nil {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

// ListByHousehold retrieves goals for a household, optionally by status
func (m *MockGoalRepository) ListByHousehold(householdID int32, status *domain.GoalStatus) ([]*domain.FinancialGoal, error) {
	if m.ListFn != nil {
		return m.ListFn(householdID, status)
	}
	var result []*domain.FinancialGoal
	for _, g := range m.ByHousehold[householdID] {
		if g.DeletedAt != nil {
			continue
		}
		if status != nil && g.Status != *status {
			continue
		}
		result = append(result, g)
	}
	if result == nil {
		result = []*domain.FinancialGoal{}
	}
	return result, nil
}

// Update updates a goal
func (m *MockGoalRepository) Update(goal *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	existing, ok := m.Goals[goal.ID]
	if !ok || existing.HouseholdID != goal.HouseholdID || existing.DeletedAt != nil {
		return nil, domain.ErrGoalNotFound
	}
	existing.Title = goal.Title
	existing.TargetAmount = goal.TargetAmount
	existing.CurrentAmount = goal.CurrentAmount
	existing.TargetDate = goal.TargetDate
	existing.MonthlyContribution = goal.MonthlyContribution
	existing.Status = goal.Status
	existing.GoalType = goal.GoalType
	return existing, nil
}

// SoftDelete marks a goal as deleted
func (m *MockGoalRepository) SoftDelete(householdID int32, id int32) error {
	goal, ok := m.Goals[id]
	if !ok || goal.HouseholdID != householdID || goal.DeletedAt != nil {
		return domain.ErrGoalNotFound
	}
	now := time.Now()
	goal.DeletedAt = &now
	return nil
}

// AddGoal adds a goal to the mock repository (helper for tests)
func (m *MockGoalRepository) AddGoal(goal *domain.FinancialGoal) {
	m.Goals[goal.ID] = goal
	m.ByHousehold[goal.HouseholdID] = append(m.ByHousehold[goal.HouseholdID], goal)
}

// MockInvestmentRepository is a mock implementation of domain.InvestmentRepository
type MockInvestmentRepository struct {
	Investments map[int32]*domain.Investment
	ByHousehold map[int32][]*domain.Investment
	NextID      int32
	ListFn      func(householdID int32) ([]*domain.Investment, error)
}

// NewMockInvestmentRepository creates a new MockInvestmentRepository
func NewMockInvestmentRepository() *MockInvestmentRepository {
	return &MockInvestmentRepository{
		Investments: make(map[int32]*domain.Investment),
		ByHousehold: make(map[int32][]*domain.Investment),
		NextID:      1,
	}
}

// Create creates a new investment
func (m *MockInvestmentRepository) Create(investment *domain.Investment) (*domain.Investment, error) {
	investment.ID = m.NextID
	m.NextID++
	m.Investments[investment.ID] = investment
	m.ByHousehold[investment.HouseholdID] = append(m.ByHousehold[investment.HouseholdID], investment)
	return investment, nil
}

// GetByID retrieves an investment by its ID within a household
func (m *MockInvestmentRepository) GetByID(householdID int32, id int32) (*domain.Investment, error) {
	inv, ok := m.Investments[id]
	if !ok || inv.HouseholdID != householdID || inv.DeletedAt != nil {
		return nil, domain.ErrInvestmentNotFound
	}
	return inv, nil
}

// ListByHousehold retrieves all investments for a household
func (m *MockInvestmentRepository) ListByHousehold(householdID int32) ([]*domain.Investment, error) {
	if m.ListFn != nil {
		return m.ListFn(householdID)
	}
	var active []*domain.Investment
	for _, inv := range m.ByHousehold[householdID] {
		if inv.DeletedAt == nil {
			active = append(active, inv)
		}
	}
	if active == nil {
		active = []*domain.Investment{}
	}
	return active, nil
}

// Update updates an investment
func (m *MockInvestmentRepository) Update(investment *domain.Investment) (*domain.Investment, error) {
	existing, ok := m.Investments[investment.ID]
	if !ok || existing.HouseholdID != investment.HouseholdID || existing.DeletedAt != nil {
		return nil, domain.ErrInvestmentNotFound
	}
	existing.Name = investment.Name
	existing.AssetType = investment.AssetType
	existing.CurrentValue = investment.CurrentValue
	existing.CostBasis = investment.CostBasis
	return existing, nil
}

// SoftDelete marks an investment as deleted
func (m *MockInvestmentRepository) SoftDelete(householdID int32, id int32) error {
	inv, ok := m.Investments[id]
	if !ok || inv.HouseholdID != householdID || inv.DeletedAt != nil {
		return domain.ErrInvestmentNotFound
	}
	now := time.Now()
	inv.DeletedAt = &now
	return nil
}

// AddInvestment adds an investment to the mock repository (helper for tests)
func (m *MockInvestmentRepository) AddInvestment(investment *domain.Investment) {
	m.Investments[investment.ID] = investment
	m.ByHousehold[investment.HouseholdID] = append(m.ByHousehold[investment.HouseholdID], investment)
}

// MockRecurringRepository is a mock implementation of domain.RecurringRepository
type MockRecurringRepository struct {
	Obligations map[int32]*domain.RecurringObligation
	ByHousehold map[int32][]*domain.RecurringObligation
	NextID      int32
	ListFn      func(householdID int32, activeOnly *bool) ([]*domain.RecurringObligation, error)
}

// NewMockRecurringRepository creates a new MockRecurringRepository
func NewMockRecurringRepository() *MockRecurringRepository {
	return &MockRecurringRepository{
		Obligations: make(map[int32]*domain.RecurringObligation),
		ByHousehold: make(map[int32][]*domain.RecurringObligation),
		NextID:      1,
	}
}

// Create creates a new recurring obligation
func (m *MockRecurringRepository) Create(obligation *domain.RecurringObligation) (*domain.RecurringObligation, error) {
	obligation.ID = m.NextID
	m.NextID++
	m.Obligations[obligation.ID] = obligation
	m.ByHousehold[obligation.HouseholdID] = append(m.ByHousehold[obligation.HouseholdID], obligation)
	return obligation, nil
}

// GetByID retrieves an obligation by its ID within a household
func (m *MockRecurringRepository) GetByID(householdID int32, id int32) (*domain.RecurringObligation, error) {
	o, ok := m.Obligations[id]
	if !ok || o.HouseholdID != householdID || o.DeletedAt != nil {
		return nil, domain.ErrObligationNotFound
	}
	return o, nil
}

// ListByHousehold retrieves obligations, optionally only active ones
func (m *MockRecurringRepository) ListByHousehold(householdID int32, activeOnly *bool) ([]*domain.RecurringObligation, error) {
	if m.ListFn != nil {
		return m.ListFn(householdID, activeOnly)
	}
	var result []*domain.RecurringObligation
	for _, o := range m.ByHousehold[householdID] {
		if o.DeletedAt != nil {
			continue
		}
		if activeOnly != nil && *activeOnly && !o.IsActive() {
			continue
		}
		result = append(result, o)
	}
	if result == nil {
		result = []*domain.RecurringObligation{}
	}
	return result, nil
}

// Update updates an obligation
func (m *MockRecurringRepository) Update(obligation *domain.RecurringObligation) (*domain.RecurringObligation, error) {
	existing, ok := m.Obligations[obligation.ID]
	if !ok || existing.HouseholdID != obligation.HouseholdID || existing.DeletedAt != nil {
		return nil, domain.ErrObligationNotFound
	}
	existing.Name = obligation.Name
	existing.Kind = obligation.Kind
	existing.Amount = obligation.Amount
	existing.Frequency = obligation.Frequency
	existing.Status = obligation.Status
	existing.NextDueDate = obligation.NextDueDate
	return existing, nil
}

// SoftDelete marks an obligation as deleted
func (m *MockRecurringRepository) SoftDelete(householdID int32, id int32) error {
	o, ok := m.Obligations[id]
	if !ok || o.HouseholdID != householdID || o.DeletedAt != nil {
		return domain.ErrObligationNotFound
	}
	now := time.Now()
	o.DeletedAt = &now
	return nil
}

// AddObligation adds an obligation to the mock repository (helper for tests)
func (m *MockRecurringRepository) AddObligation(obligation *domain.RecurringObligation) {
	m.Obligations[obligation.ID] = obligation
	m.ByHousehold[obligation.HouseholdID] = append(m.ByHousehold[obligation.HouseholdID], obligation)
}
