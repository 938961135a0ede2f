package service_test

import (
	"context"
	"errors"
	"testing"

	"cardlink/internal/models"
	"cardlink/internal/payment"
	"cardlink/internal/service"
)

type mockMarketRepo struct {
	PurchaseTemplateFunc func(ctx context.Context, userID, templateID string, price float64) (float64, error)
	calls                int
}

func (m *mockMarketRepo) PurchaseTemplate(ctx context.Context, userID, templateID string, price float64) (float64, error) {
	m.calls++
	return m.PurchaseTemplateFunc(ctx, userID, templateID, price)
}

type mockAccounts struct {
	AccountByIDFunc func(ctx context.Context, userID string) (*models.Account, error)
	SetPlanFunc     func(ctx context.Context, userID string, plan models.Plan) error
}

func (m *mockAccounts) AccountByID(ctx context.Context, userID string) (*models.Account, error) {
	return m.AccountByIDFunc(ctx, userID)
}
func (m *mockAccounts) SetPlan(ctx context.Context, userID string, plan models.Plan) error {
	return m.SetPlanFunc(ctx, userID, plan)
}

type mockOwned struct {
	owned map[string]bool
}

func (m *mockOwned) IsOwned(ctx context.Context, userID, templateID string) (bool, error) {
	return m.owned[templateID], nil
}
func (m *mockOwned) FetchOwnedTemplateIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for id := range m.owned {
		ids = append(ids, id)
	}
	return ids, nil
}

func approvingProcessor() *payment.Processor {
	return payment.NewProcessorForTest(func() float64 { return 0 })
}

func decliningProcessor() *payment.Processor {
	return payment.NewProcessorForTest(func() float64 { return 0.99 })
}

func testTemplate(price float64) models.Template {
	return models.Template{ID: "tpl-mono-slate", Name: "Mono Slate", Price: price}
}

func accountWithBalance(balance float64) *mockAccounts {
	return &mockAccounts{
		AccountByIDFunc: func(context.Context, string) (*models.Account, error) {
			return &models.Account{ID: "u1", Balance: balance, Plan: models.PlanFree}, nil
		},
		SetPlanFunc: func(context.Context, string, models.Plan) error { return nil },
	}
}

func TestPurchase_InsufficientBalanceWritesNothing(t *testing.T) {
	repo := &mockMarketRepo{}
	svc := service.NewMarketService(repo, accountWithBalance(4.50), &mockOwned{}, approvingProcessor())

	_, err := svc.Purchase(context.Background(), "u1", testTemplate(4.99))
	if !errors.Is(err, models.ErrInsufficientBalance) {
		t.Fatalf("error = %v; want ErrInsufficientBalance", err)
	}
	if repo.calls != 0 {
		t.Errorf("repository written %d times; want 0", repo.calls)
	}
}

func TestPurchase_AlreadyOwnedWritesNothing(t *testing.T) {
	repo := &mockMarketRepo{}
	owned := &mockOwned{owned: map[string]bool{"tpl-mono-slate": true}}
	svc := service.NewMarketService(repo, accountWithBalance(100), owned, approvingProcessor())

	_, err := svc.Purchase(context.Background(), "u1", testTemplate(4.99))
	if !errors.Is(err, models.ErrAlreadyOwned) {
		t.Fatalf("error = %v; want ErrAlreadyOwned", err)
	}
	if repo.calls != 0 {
		t.Errorf("repository written %d times; want 0", repo.calls)
	}
}

func TestPurchase_PaymentDeclinedWritesNothing(t *testing.T) {
	repo := &mockMarketRepo{}
	svc := service.NewMarketService(repo, accountWithBalance(100), &mockOwned{}, decliningProcessor())

	_, err := svc.Purchase(context.Background(), "u1", testTemplate(4.99))
	if !errors.Is(err, models.ErrPaymentDeclined) {
		t.Fatalf("error = %v; want ErrPaymentDeclined", err)
	}
	if repo.calls != 0 {
		t.Errorf("repository written %d times; want 0", repo.calls)
	}
}

func TestPurchase_Success(t *testing.T) {
	var gotUser, gotTemplate string
	var gotPrice float64
	repo := &mockMarketRepo{
		PurchaseTemplateFunc: func(ctx context.Context, userID, templateID string, price float64) (float64, error) {
			gotUser, gotTemplate, gotPrice = userID, templateID, price
			return models.Round2(100 - price), nil
		},
	}
	svc := service.NewMarketService(repo, accountWithBalance(100), &mockOwned{}, approvingProcessor())

	balance, err := svc.Purchase(context.Background(), "u1", testTemplate(33.33))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("repository written %d times; want exactly 1", repo.calls)
	}
	if gotUser != "u1" || gotTemplate != "tpl-mono-slate" || gotPrice != 33.33 {
		t.Errorf("repo called with (%q, %q, %v)", gotUser, gotTemplate, gotPrice)
	}
	if balance != 66.67 {
		t.Errorf("balance = %v; want 66.67", balance)
	}
}

func TestPurchase_UnknownAccount(t *testing.T) {
	repo := &mockMarketRepo{}
	accounts := &mockAccounts{
		AccountByIDFunc: func(context.Context, string) (*models.Account, error) { return nil, nil },
	}
	svc := service.NewMarketService(repo, accounts, &mockOwned{}, approvingProcessor())

	_, err := svc.Purchase(context.Background(), "ghost", testTemplate(1))
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
}

func TestChangePlan(t *testing.T) {
	var setPlan models.Plan
	accounts := accountWithBalance(0)
	accounts.SetPlanFunc = func(ctx context.Context, userID string, plan models.Plan) error {
		setPlan = plan
		return nil
	}
	svc := service.NewMarketService(&mockMarketRepo{}, accounts, &mockOwned{}, approvingProcessor())

	if err := svc.ChangePlan(context.Background(), "u1", models.PlanPro); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setPlan != models.PlanPro {
		t.Errorf("plan set to %q; want Pro", setPlan)
	}

	if err := svc.ChangePlan(context.Background(), "u1", models.Plan("Platinum")); err == nil {
		t.Error("unknown plan must be rejected")
	}

	declined := service.NewMarketService(&mockMarketRepo{}, accounts, &mockOwned{}, decliningProcessor())
	if err := declined.ChangePlan(context.Background(), "u1", models.PlanPro); !errors.Is(err, models.ErrPaymentDeclined) {
		t.Errorf("error = %v; want ErrPaymentDeclined", err)
	}
}

func TestTemplateCatalog(t *testing.T) {
	svc := service.NewMarketService(&mockMarketRepo{}, accountWithBalance(0), &mockOwned{}, approvingProcessor())

	templates := svc.Templates()
	if len(templates) == 0 {
		t.Fatal("catalog must not be empty")
	}
	seen := make(map[string]bool)
	for _, tpl := range templates {
		if tpl.ID == "" || seen[tpl.ID] {
			t.Errorf("catalog template with empty or duplicate id: %+v", tpl)
		}
		seen[tpl.ID] = true
		if tpl.Price <= 0 {
			t.Errorf("template %s has non-positive price %v", tpl.ID, tpl.Price)
		}
		if !tpl.Category.Valid() {
			t.Errorf("template %s has unknown category %q", tpl.ID, tpl.Category)
		}
	}

	got, ok := svc.TemplateByID(templates[0].ID)
	if !ok || got.ID != templates[0].ID {
		t.Errorf("TemplateByID(%q) = %+v, %v", templates[0].ID, got, ok)
	}
	if _, ok := svc.TemplateByID("tpl-nope"); ok {
		t.Error("unknown template id must not resolve")
	}
}
