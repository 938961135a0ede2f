package service

import (
	"context"
	"fmt"
	"strconv"

	"cardlink/internal/models"
	"cardlink/internal/payment"
)

// MarketRepository defines the transactional marketplace write needed by
// the MarketService.
type MarketRepository interface {
	// PurchaseTemplate debits the price and grants the template in one
	// transaction, returning the new balance. Fails with
	// models.ErrInsufficientBalance when the locked balance is short.
	PurchaseTemplate(ctx context.Context, userID, templateID string, price float64) (float64, error)
}

// AccountRepository defines the account reads and plan write needed by the
// MarketService.
type AccountRepository interface {
	// AccountByID fetches an account by user id, or (nil, nil).
	AccountByID(ctx context.Context, userID string) (*models.Account, error)
	// SetPlan updates the account's plan tier.
	SetPlan(ctx context.Context, userID string, plan models.Plan) error
}

// OwnershipChecker reports template ownership; satisfied by CardGateway.
type OwnershipChecker interface {
	IsOwned(ctx context.Context, userID, templateID string) (bool, error)
	FetchOwnedTemplateIDs(ctx context.Context, userID string) ([]string, error)
}

// PaymentProcessor is the opaque yes/no gate consulted before any balance
// mutation; satisfied by payment.Processor.
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, amount string) (payment.Result, error)
	ProcessChangePlan(ctx context.Context, plan models.Plan) bool
}

// MarketService implements the template marketplace: the ownership ledger,
// purchases, and plan changes.
type MarketService struct {
	repo     MarketRepository
	accounts AccountRepository
	owned    OwnershipChecker
	payments PaymentProcessor
}

// NewMarketService constructs a MarketService from its collaborators.
func NewMarketService(repo MarketRepository, accounts AccountRepository, owned OwnershipChecker, payments PaymentProcessor) *MarketService {
	return &MarketService{repo: repo, accounts: accounts, owned: owned, payments: payments}
}

// Templates returns the marketplace catalog.
func (s *MarketService) Templates() []models.Template {
	out := make([]models.Template, len(catalog))
	copy(out, catalog)
	return out
}

// TemplateByID looks up a catalog template.
func (s *MarketService) TemplateByID(id string) (models.Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return models.Template{}, false
}

// IsOwned reports whether the user owns the template.
func (s *MarketService) IsOwned(ctx context.Context, userID, templateID string) (bool, error) {
	return s.owned.IsOwned(ctx, userID, templateID)
}

// OwnedTemplateIDs returns the ids of the templates the user owns.
func (s *MarketService) OwnedTemplateIDs(ctx context.Context, userID string) ([]string, error) {
	return s.owned.FetchOwnedTemplateIDs(ctx, userID)
}

// Purchase buys a template for the user and returns the new balance.
//
// Order of checks, none of which writes anything: already-owned, balance,
// payment gate. Only then the debit and the grant land, together, in one
// repository transaction.
func (s *MarketService) Purchase(ctx context.Context, userID string, tpl models.Template) (float64, error) {
	owned, err := s.owned.IsOwned(ctx, userID, tpl.ID)
	if err != nil {
		return 0, err
	}
	if owned {
		return 0, models.ErrAlreadyOwned
	}

	acc, err := s.accounts.AccountByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if acc == nil {
		return 0, models.ErrNotFound
	}
	if acc.Balance < tpl.Price {
		return 0, models.ErrInsufficientBalance
	}

	res, err := s.payments.ProcessPayment(ctx, strconv.FormatFloat(tpl.Price, 'f', 2, 64))
	if err != nil {
		return 0, err
	}
	if !res.Success {
		return 0, fmt.Errorf("%w: %s", models.ErrPaymentDeclined, res.Error)
	}

	return s.repo.PurchaseTemplate(ctx, userID, tpl.ID, tpl.Price)
}

// ChangePlan switches the user to plan after the payment gate approves.
func (s *MarketService) ChangePlan(ctx context.Context, userID string, plan models.Plan) error {
	if !plan.Valid() {
		return fmt.Errorf("unknown plan %q", plan)
	}
	if !s.payments.ProcessChangePlan(ctx, plan) {
		return models.ErrPaymentDeclined
	}
	return s.accounts.SetPlan(ctx, userID, plan)
}

// catalog is the static marketplace catalog. Template ids are the keys
// recorded in each user's owned set; they must stay stable.
var catalog = []models.Template{
	{
		ID:       "tpl-exec-navy",
		Name:     "Executive Navy",
		Category: models.CategoryBusiness,
		Price:    9.99,
		Card: models.Card{
			Font: models.FontPlayfair, Color: models.ColorGold, BgColor: models.ColorNavy,
			Align: models.AlignCenter, Effect: models.EffectFoil, StyleVariant: models.StyleModern,
		},
	},
	{
		ID:       "tpl-coral-studio",
		Name:     "Coral Studio",
		Category: models.CategoryCreative,
		Price:    7.49,
		Card: models.Card{
			Font: models.FontPoppins, Color: models.ColorWhite, BgColor: models.ColorCoral,
			Align: models.AlignLeft, Effect: models.EffectGloss, StyleVariant: models.StyleModern,
		},
	},
	{
		ID:       "tpl-mono-slate",
		Name:     "Mono Slate",
		Category: models.CategoryMinimal,
		Price:    4.99,
		Card: models.Card{
			Font: models.FontMono, Color: models.ColorWhite, BgColor: models.ColorSlate,
			Align: models.AlignLeft, Effect: models.EffectNone, StyleVariant: models.StyleMinimalist,
		},
	},
	{
		ID:       "tpl-gold-emboss",
		Name:     "Gold Emboss",
		Category: models.CategoryLuxury,
		Price:    14.99,
		Card: models.Card{
			Font: models.FontLora, Color: models.ColorBlack, BgColor: models.ColorGold,
			Align: models.AlignCenter, Effect: models.EffectEmboss, StyleVariant: models.StyleDefault,
		},
	},
}
