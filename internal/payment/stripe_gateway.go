package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"snapstudio-be/internal/logger"

	"go.uber.org/zap"
)

const stripeBaseURL = "https://api.stripe.com"

type stripeGateway struct {
	apiKey        string
	webhookSecret string
	successURL    string
	cancelURL     string
	baseURL       string
	httpClient    *http.Client
}

// ----------------- Constructor -----------------

func NewStripeGateway(apiKey, webhookSecret, successURL, cancelURL string) Gateway {
	if apiKey == "" {
		logger.L().Warn("Stripe API key is empty")
	}

	return &stripeGateway{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
		baseURL:       stripeBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ----------------- CreateCheckoutSession -----------------

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}

	log := logger.FromCtx(ctx).With(
		zap.String("reference_id", req.ReferenceID),
		zap.Int64("amount_cents", req.AmountCents),
		zap.String("currency", req.Currency),
	)

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", req.ReferenceID)
	form.Set("customer_email", req.Email)
	form.Set("success_url", g.successURL)
	form.Set("cancel_url", g.cancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(req.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", req.Description)

	log.Info("creating provider checkout session")

	body, err := g.post(ctx, "/v1/checkout/sessions", form)
	if err != nil {
		log.Error("provider session creation failed", zap.Error(err))
		return nil, err
	}

	var res struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		log.Error("failed decoding provider response", zap.Error(err))
		return nil, err
	}

	log.Info("provider checkout session created", zap.String("session_id", res.ID))

	return &Session{ID: res.ID, PaymentURL: res.URL}, nil
}

// ----------------- RefundCharge -----------------

func (g *stripeGateway) RefundCharge(ctx context.Context, chargeRef string, amountCents int64, reason string) (*RefundResult, error) {
	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}

	log := logger.FromCtx(ctx).With(
		zap.String("charge_ref", chargeRef),
		zap.Int64("amount_cents", amountCents),
	)

	form := url.Values{}
	form.Set("payment_intent", chargeRef)
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	if reason != "" {
		form.Set("metadata[reason]", reason)
	}

	log.Info("requesting provider refund")

	body, err := g.post(ctx, "/v1/refunds", form)
	if err != nil {
		// A charge that is already fully refunded is a success for the
		// caller: the money is back, retrying must not fail.
		var provErr *ProviderError
		if errors.As(err, &provErr) && provErr.Code == "charge_already_refunded" {
			log.Warn("charge already refunded on provider side")
			return &RefundResult{Status: "succeeded", AlreadyRefunded: true}, nil
		}
		log.Error("provider refund failed", zap.Error(err))
		return nil, err
	}

	var res struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		log.Error("failed decoding provider refund response", zap.Error(err))
		return nil, err
	}

	log.Info("provider refund created",
		zap.String("refund_id", res.ID),
		zap.String("status", res.Status),
	)

	return &RefundResult{ProviderRefundID: res.ID, Status: res.Status}, nil
}

// ----------------- Verify Signature -----------------

// VerifySignature checks the webhook HMAC. An empty secret skips the check
// so local development works without provider config.
func (g *stripeGateway) VerifySignature(signature string, body []byte) error {
	if g.webhookSecret == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// ----------------- HTTP plumbing -----------------

func (g *stripeGateway) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(g.apiKey, "")
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errRes struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &errRes); err == nil && errRes.Error.Message != "" {
			return nil, &ProviderError{Code: errRes.Error.Code, Message: errRes.Error.Message}
		}
		return nil, &ProviderError{Code: strconv.Itoa(resp.StatusCode), Message: string(body)}
	}

	return body, nil
}
