package payments

import (
	"context"
	"fmt"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

// Preference is the slice of the gateway response the app cares
// about: where to send the client to pay.
type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
	Reference string `json:"reference"`
}

// PaymentInfo is the slice of a gateway payment used by the webhook:
// which booking it belongs to and whether it went through.
type PaymentInfo struct {
	Status    string
	Reference string
}

// Gateway creates payment preferences for reserved slots and resolves
// webhook payment ids. Mercado Pago implements it; tests use a fake.
type Gateway interface {
	CreatePreference(ctx context.Context, slot *models.AppointmentSlot) (*Preference, error)
	GetPayment(ctx context.Context, id int) (*PaymentInfo, error)
}

type MercadoPagoGateway struct {
	preferences preference.Client
	payments    payment.Client
}

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("payments: mercadopago config: %w", err)
	}

	return &MercadoPagoGateway{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

func (g *MercadoPagoGateway) CreatePreference(
	ctx context.Context,
	slot *models.AppointmentSlot,
) (*Preference, error) {

	if slot.Reference == "" || slot.TotalCost <= 0 {
		return nil, fmt.Errorf("payments: slot %d has no payable booking", slot.ID)
	}

	titles := make([]string, 0, len(slot.Services))
	for _, s := range slot.Services {
		titles = append(titles, s.Name)
	}
	title := strings.Join(titles, " + ")
	if title == "" {
		title = "Turno barbería"
	}

	resp, err := g.preferences.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:     title,
				Quantity:  1,
				UnitPrice: slot.TotalCost,
			},
		},
		ExternalReference: slot.Reference,
	})
	if err != nil {
		return nil, fmt.Errorf("payments: create preference: %w", err)
	}

	return &Preference{
		ID:        resp.ID,
		InitPoint: resp.InitPoint,
		Reference: slot.Reference,
	}, nil
}

func (g *MercadoPagoGateway) GetPayment(
	ctx context.Context,
	id int,
) (*PaymentInfo, error) {

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("payments: get payment %d: %w", id, err)
	}

	return &PaymentInfo{
		Status:    resp.Status,
		Reference: resp.ExternalReference,
	}, nil
}
