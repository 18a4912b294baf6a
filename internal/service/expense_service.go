package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalog-api/internal/model"
	"catalog-api/pkg/apierror"
)

type expenseStore interface {
	Create(ctx context.Context, e model.Expense) error
	ListByUser(ctx context.Context, userID string) ([]model.Expense, error)
	FindForUser(ctx context.Context, id string, userID string) (model.Expense, error)
	DeleteForUser(ctx context.Context, id string, userID string) error
}

// ExpenseService scopes every operation to the owning user.
type ExpenseService struct {
	expenses expenseStore
	now      func() time.Time
}

func NewExpenseService(expenses expenseStore) *ExpenseService {
	return &ExpenseService{expenses: expenses, now: func() time.Time { return time.Now().UTC() }}
}

func (s *ExpenseService) Create(ctx context.Context, userID string, req model.ExpenseRequest) (model.Expense, error) {
	title := strings.TrimSpace(req.Title)
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if title == "" || req.Amount == nil || *req.Amount == 0 || strings.TrimSpace(req.Date) == "" || category == "" {
		return model.Expense{}, apierror.Validation("", "All fields are required")
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return model.Expense{}, apierror.Cast(err)
	}
	if !slices.Contains(model.ExpenseCategories, category) {
		return model.Expense{}, apierror.Validation("category", "Invalid category")
	}

	now := s.now()
	e := model.Expense{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Amount:    *req.Amount,
		Date:      date,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return model.Expense{}, err
	}
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, userID string) ([]model.Expense, error) {
	return s.expenses.ListByUser(ctx, userID)
}

func (s *ExpenseService) Get(ctx context.Context, userID string, id string) (model.Expense, error) {
	e, err := s.expenses.FindForUser(ctx, id, userID)
	if err != nil {
		return model.Expense{}, notFoundAs(err, "Expense not found")
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID string, id string) error {
	return notFoundAs(s.expenses.DeleteForUser(ctx, id, userID), "Expense not found")
}
