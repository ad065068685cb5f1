package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	validator "github.com/go-playground/validator/v10"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-report/internal/report"
)

const validPayload = `{
	"sellers": [
		{"id": "s1", "first_name": "Ana", "last_name": "Putri"},
		{"id": "s2", "first_name": "Budi", "last_name": "Santoso"}
	],
	"products": [{"sku": "A", "purchase_price": 5}],
	"purchase_records": [
		{"seller_id": "s1", "items": [{"sku": "A", "quantity": 2, "sale_price": 10, "discount": 0}]}
	]
}`

type reportEnvelope struct {
	Data struct {
		ReportID       string       `json:"report_id"`
		Rows           []report.Row `json:"rows"`
		SkippedRecords int          `json:"skipped_records"`
		SkippedItems   int          `json:"skipped_items"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func postSales(t *testing.T, h *report.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/sales", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Sales(rec, req)
	return rec
}

func TestSalesHandlerComputesReport(t *testing.T) {
	h := &report.Handler{Validate: validator.New()}

	rec := postSales(t, h, validPayload)
	require.Equal(t, http.StatusOK, rec.Code)

	var out reportEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Data.ReportID)
	require.Len(t, out.Data.Rows, 2)

	first := out.Data.Rows[0]
	require.Equal(t, "s1", first.SellerID)
	require.Equal(t, "Ana Putri", first.Name)
	require.True(t, first.Revenue.Equal(decimal.NewFromInt(20)), "revenue %s", first.Revenue)
	require.True(t, first.Profit.Equal(decimal.NewFromInt(10)), "profit %s", first.Profit)
	require.True(t, first.Bonus.Equal(decimal.NewFromFloat(1.5)), "bonus %s", first.Bonus)
	require.Equal(t, 1, first.SalesCount)
	require.Equal(t, "s2", out.Data.Rows[1].SellerID)
	require.Zero(t, out.Data.SkippedRecords)
	require.Zero(t, out.Data.SkippedItems)
}

func TestSalesHandlerRejectsMalformedJSON(t *testing.T) {
	h := &report.Handler{Validate: validator.New()}

	rec := postSales(t, h, `{"sellers": [`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var out errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "BAD_REQUEST", out.Error.Code)
}

func TestSalesHandlerRejectsEmptyCollections(t *testing.T) {
	h := &report.Handler{Validate: validator.New()}

	body := `{"sellers": [{"id": "s1"}], "products": [], "purchase_records": [{"seller_id": "s1"}]}`
	rec := postSales(t, h, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var out errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "INVALID_INPUT", out.Error.Code)
}

func TestSalesHandlerRejectsUnknownPolicy(t *testing.T) {
	h := &report.Handler{Validate: validator.New()}

	body := `{
		"sellers": [{"id": "s1"}],
		"products": [{"sku": "A", "purchase_price": 5}],
		"purchase_records": [{"seller_id": "s1", "items": []}],
		"options": {"revenue_policy": "bogus"}
	}`
	rec := postSales(t, h, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var out errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "INVALID_INPUT", out.Error.Code)
}

func TestSalesHandlerUnknownPolicyWithoutValidator(t *testing.T) {
	// With no validator attached the policy check falls through to
	// strategy resolution.
	h := &report.Handler{}

	body := `{
		"sellers": [{"id": "s1"}],
		"products": [{"sku": "A", "purchase_price": 5}],
		"purchase_records": [{"seller_id": "s1", "items": []}],
		"options": {"revenue_policy": "bogus"}
	}`
	rec := postSales(t, h, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var out errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "MISSING_STRATEGY", out.Error.Code)
}

func TestSalesHandlerReportsSkips(t *testing.T) {
	h := &report.Handler{Validate: validator.New()}

	body := `{
		"sellers": [{"id": "s1", "first_name": "Ana", "last_name": "Putri"}],
		"products": [{"sku": "A", "purchase_price": 5}],
		"purchase_records": [
			{"seller_id": "ghost", "items": [{"sku": "A", "quantity": 1, "sale_price": 10, "discount": 0}]},
			{"seller_id": "s1", "items": [{"sku": "NOPE", "quantity": 1, "sale_price": 10, "discount": 0}]}
		]
	}`
	rec := postSales(t, h, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var out reportEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, 1, out.Data.SkippedRecords)
	require.Equal(t, 1, out.Data.SkippedItems)
	require.Len(t, out.Data.Rows, 1)
}

func TestSalesHandlerUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := &report.Handler{
		Validate: validator.New(),
		Cache:    report.NewCache(client, time.Minute),
	}

	first := postSales(t, h, validPayload)
	require.Equal(t, http.StatusOK, first.Code)
	require.Len(t, mr.Keys(), 1)

	second := postSales(t, h, validPayload)
	require.Equal(t, http.StatusOK, second.Code)
	require.Len(t, mr.Keys(), 1)

	var a, b reportEnvelope
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	require.Equal(t, len(a.Data.Rows), len(b.Data.Rows))
	for i := range a.Data.Rows {
		require.True(t, a.Data.Rows[i].Revenue.Equal(b.Data.Rows[i].Revenue))
		require.True(t, a.Data.Rows[i].Profit.Equal(b.Data.Rows[i].Profit))
	}
}

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := report.NewCache(client, time.Minute)
	key := cache.Key([]byte("payload"))

	_, _, ok := cache.Get(context.Background(), key)
	require.False(t, ok)

	rows := []report.Row{{SellerID: "s1", Name: "Ana Putri"}}
	stats := report.Stats{SkippedItems: 2}
	cache.Set(context.Background(), key, rows, stats)

	got, gotStats, ok := cache.Get(context.Background(), key)
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, "s1", got[0].SellerID)
	require.Equal(t, stats, gotStats)
}

func TestCacheDisabledWithoutClient(t *testing.T) {
	var cache *report.Cache
	_, _, ok := cache.Get(context.Background(), "report:sales:deadbeef")
	require.False(t, ok)
	cache.Set(context.Background(), "report:sales:deadbeef", nil, report.Stats{})
}
