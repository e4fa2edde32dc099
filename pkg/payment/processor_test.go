package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSDK struct {
	tokenizeErr error
	confirmErr  error
	tokenized   atomic.Int32
	confirmed   atomic.Int32
}

func (s *fakeSDK) Tokenize(_ context.Context, card Card) (string, error) {
	s.tokenized.Add(1)
	if s.tokenizeErr != nil {
		return "", s.tokenizeErr
	}
	return "tok_" + card.Number[len(card.Number)-4:], nil
}

func (s *fakeSDK) ConfirmIntent(_ context.Context, clientSecret, cardToken string) (Confirmation, error) {
	s.confirmed.Add(1)
	if s.confirmErr != nil {
		return Confirmation{}, s.confirmErr
	}
	return Confirmation{
		PaymentID:       "pi_123",
		CardBrand:       "visa",
		CardLast4:       cardToken[len(cardToken)-4:],
		PaymentMethodID: "pm_123",
	}, nil
}

func testCard() *Card {
	return &Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123"}
}

func TestProcessor_NewCardFlow(t *testing.T) {
	var savedMethods atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/payments/intents":
			var req intentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.NotEmpty(t, req.IdempotencyKey)
			require.EqualValues(t, 9999, req.Amount)
			_ = json.NewEncoder(w).Encode(intentResponse{
				Success:      true,
				Status:       "requires_confirmation",
				ClientSecret: "cs_test",
				CustomerID:   "cus_9",
			})
		case "/payments/methods":
			savedMethods.Add(1)
			w.WriteHeader(http.StatusCreated)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sdk := &fakeSDK{}
	processor, err := NewProcessor(server.URL, sdk)
	require.NoError(t, err)

	confirmation, err := processor.Confirm(context.Background(), Request{
		AmountCents: 9999,
		Customer:    Customer{Email: "ada@example.com"},
		Card:        testCard(),
		SaveMethod:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", confirmation.PaymentID)
	assert.Equal(t, ProviderName, confirmation.Provider)
	assert.Equal(t, "4242", confirmation.CardLast4)
	assert.Equal(t, "cus_9", confirmation.CustomerID)
	assert.EqualValues(t, 1, sdk.tokenized.Load())
	assert.EqualValues(t, 1, sdk.confirmed.Load())
	assert.EqualValues(t, 1, savedMethods.Load())
}

func TestProcessor_SavedMethodSkipsSDK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/intents", r.URL.Path)
		var req intentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "pm_saved", req.SavedMethodID)
		_ = json.NewEncoder(w).Encode(intentResponse{
			Success:   true,
			Status:    "succeeded",
			PaymentID: "pi_saved",
			CardBrand: "amex",
			CardLast4: "0005",
		})
	}))
	defer server.Close()

	sdk := &fakeSDK{}
	processor, err := NewProcessor(server.URL, sdk)
	require.NoError(t, err)

	confirmation, err := processor.Confirm(context.Background(), Request{
		AmountCents:   9999,
		SavedMethodID: "pm_saved",
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_saved", confirmation.PaymentID)
	assert.Equal(t, "pm_saved", confirmation.PaymentMethodID)
	assert.Zero(t, sdk.tokenized.Load(), "saved method must not touch the SDK")
	assert.Zero(t, sdk.confirmed.Load())
}

func TestProcessor_DeclineSurfacesFieldError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(intentResponse{
			Success: false,
			Status:  "declined",
			Error:   "Your card has insufficient funds.",
		})
	}))
	defer server.Close()

	processor, err := NewProcessor(server.URL, &fakeSDK{})
	require.NoError(t, err)

	_, err = processor.Confirm(context.Background(), Request{
		AmountCents:   9999,
		SavedMethodID: "pm_saved",
	})
	require.Error(t, err)

	var decline DeclineError
	require.ErrorAs(t, err, &decline)
	assert.Equal(t, "Your card has insufficient funds.", DisplayError(err))
}

func TestProcessor_NetworkFailureIsGenericDisplay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	processor, err := NewProcessor(server.URL, &fakeSDK{})
	require.NoError(t, err)

	_, err = processor.Confirm(context.Background(), Request{
		AmountCents:   9999,
		SavedMethodID: "pm_saved",
	})
	require.Error(t, err)
	assert.Equal(t, "Payment could not be completed. Please try again.", DisplayError(err))
}

func TestProcessor_RequestValidation(t *testing.T) {
	processor, err := NewProcessor("http://localhost:0", &fakeSDK{})
	require.NoError(t, err)

	_, err = processor.Confirm(context.Background(), Request{AmountCents: 9999})
	assert.ErrorIs(t, err, ErrIncompleteRequest)
}

func TestMethodsClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/methods", r.URL.Path)
		require.Equal(t, "cus_9", r.URL.Query().Get("customerId"))
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(savedMethodsResponse{Data: []SavedMethod{
			{ID: "pm_1", CardBrand: "visa", CardLast4: "4242", Default: true},
		}})
	}))
	defer server.Close()

	client, err := NewMethodsClient(server.URL, "token-1")
	require.NoError(t, err)

	methods, err := client.SavedMethods(context.Background(), "cus_9")
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "pm_1", methods[0].ID)
}

func TestProcessor_TokenizeFailure(t *testing.T) {
	processor, err := NewProcessor("http://localhost:0", &fakeSDK{tokenizeErr: errors.New("invalid card number")})
	require.NoError(t, err)

	_, err = processor.Confirm(context.Background(), Request{
		AmountCents: 9999,
		Card:        testCard(),
	})
	require.Error(t, err)
}
