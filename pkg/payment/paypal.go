package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"safari-booking/pkg/utils"

	"github.com/plutov/paypal/v4"
	"go.uber.org/zap"
)

// OrderRequest describes a provider order to create. Currency is whatever the
// caller asked for; the payment service forces it to USD before it gets here.
type OrderRequest struct {
	Amount      string
	Currency    string
	Description string
	CustomID    string
}

// CaptureResult is the provider's settlement detail for a completed capture.
// Status is returned verbatim for any outcome, completed or not.
type CaptureResult struct {
	Status        string
	TransactionID string
	Amount        float64
	Currency      string
	PayerEmail    string
	PayerName     string
}

// Gateway is the payment-provider contract. There is deliberately no Refund
// method: refunds are local bookkeeping only in this version.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (string, error)
	CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error)
}

type paypalGateway struct {
	client    *paypal.Client
	clientURL string
	log       *zap.Logger
}

func NewPayPalGateway(config utils.PayPalConfig, clientURL string, log *zap.Logger) (Gateway, error) {
	client, err := paypal.NewClient(config.ClientID, config.Secret, config.APIBase)
	if err != nil {
		return nil, fmt.Errorf("init paypal client: %w", err)
	}

	return &paypalGateway{
		client:    client,
		clientURL: clientURL,
		log:       log,
	}, nil
}

func (g *paypalGateway) CreateOrder(ctx context.Context, req OrderRequest) (string, error) {
	units := []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: req.Currency,
				Value:    req.Amount,
			},
			Description:    req.Description,
			CustomID:       req.CustomID,
			SoftDescriptor: "Trip Registration",
		},
	}

	appContext := &paypal.ApplicationContext{
		BrandName:  "Adventure Safari",
		UserAction: paypal.UserActionPayNow,
		ReturnURL:  g.clientURL + "/payment/success",
		CancelURL:  g.clientURL + "/payment/cancel",
	}

	order, err := g.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, appContext)
	if err != nil {
		g.log.Error("Failed to create PayPal order",
			zap.Error(err),
			zap.String("custom_id", req.CustomID),
		)
		return "", fmt.Errorf("create paypal order: %w", err)
	}

	g.log.Info("PayPal order created",
		zap.String("order_id", order.ID),
		zap.String("custom_id", req.CustomID),
	)

	return order.ID, nil
}

func (g *paypalGateway) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	capture, err := g.client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		g.log.Error("Failed to capture PayPal order",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("capture paypal order %s: %w", orderID, err)
	}

	result := &CaptureResult{
		Status:        string(capture.Status),
		TransactionID: capture.ID,
	}

	if capture.Payer != nil {
		result.PayerEmail = capture.Payer.EmailAddress
		if capture.Payer.Name != nil {
			result.PayerName = strings.TrimSpace(
				capture.Payer.Name.GivenName + " " + capture.Payer.Name.Surname)
		}
	}

	// Settlement amount lives on the first capture of the first purchase unit
	if len(capture.PurchaseUnits) > 0 && capture.PurchaseUnits[0].Payments != nil &&
		len(capture.PurchaseUnits[0].Payments.Captures) > 0 {
		captured := capture.PurchaseUnits[0].Payments.Captures[0]
		if captured.Amount != nil {
			result.Currency = captured.Amount.Currency
			if amount, err := strconv.ParseFloat(captured.Amount.Value, 64); err == nil {
				result.Amount = amount
			}
		}
	}

	g.log.Info("PayPal order captured",
		zap.String("order_id", orderID),
		zap.String("status", result.Status),
		zap.String("transaction_id", result.TransactionID),
	)

	return result, nil
}
