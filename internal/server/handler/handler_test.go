package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkolabs/hawko/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeArbService struct {
	scan domain.Scan
	err  error
}

func (f *fakeArbService) Live(_ context.Context, mode domain.Mode) (domain.Scan, error) {
	if f.err != nil {
		return domain.Scan{}, f.err
	}
	scan := f.scan
	scan.Mode = mode
	return scan, nil
}

func (f *fakeArbService) History(context.Context, int) ([]domain.Scan, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Scan{f.scan}, nil
}

func TestArbScanDefaultsToStrict(t *testing.T) {
	svc := &fakeArbService{scan: domain.Scan{ID: "s1", StartedAt: time.Now()}}
	h := NewArbHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/arbitrage", nil)
	rec := httptest.NewRecorder()
	h.Scan(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp scanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ModeStrict, resp.Scan.Mode)
	assert.False(t, resp.Degraded)
}

func TestArbScanLooseModeAndDegradedFlag(t *testing.T) {
	svc := &fakeArbService{scan: domain.Scan{
		ID:            "s2",
		FailedSources: []domain.Source{domain.SourceKalshi},
	}}
	h := NewArbHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/arbitrage?mode=loose", nil)
	rec := httptest.NewRecorder()
	h.Scan(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp scanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ModeLoose, resp.Scan.Mode)
	assert.True(t, resp.Degraded)
}

func TestArbScanAllSourcesDown(t *testing.T) {
	h := NewArbHandler(&fakeArbService{err: domain.ErrNoSourcesAvailable}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/arbitrage", nil)
	rec := httptest.NewRecorder()
	h.Scan(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

type fakeWalletService struct {
	report domain.WalletReport
	err    error
}

func (f *fakeWalletService) Report(context.Context, string) (domain.WalletReport, error) {
	return f.report, f.err
}

func TestWalletRequiresAddress(t *testing.T) {
	h := NewWalletHandler(&fakeWalletService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
	rec := httptest.NewRecorder()
	h.Report(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWalletInvalidAddressIs400(t *testing.T) {
	h := NewWalletHandler(&fakeWalletService{err: domain.ErrInvalidAddress}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/wallet?address=xyz", nil)
	rec := httptest.NewRecorder()
	h.Report(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeWhaleService struct {
	page  domain.WhaleAlertPage
	added int
	err   error
}

func (f *fakeWhaleService) List(context.Context, domain.ListOpts) (domain.WhaleAlertPage, error) {
	return f.page, f.err
}

func (f *fakeWhaleService) Record(context.Context, []domain.WhaleAlert) (int, error) {
	return f.added, f.err
}

func TestWhaleListPaging(t *testing.T) {
	svc := &fakeWhaleService{page: domain.WhaleAlertPage{
		Alerts:  []domain.WhaleAlert{{ID: "0x1", AmountUSD: 15000}},
		Total:   42,
		HasMore: true,
	}}
	h := NewWhaleHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/whale-alerts?limit=1", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var page domain.WhaleAlertPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(42), page.Total)
	assert.True(t, page.HasMore)
}

func TestWhaleRecord(t *testing.T) {
	h := NewWhaleHandler(&fakeWhaleService{added: 1}, testLogger())

	body := `{"alerts":[{"id":"0x1","timestamp":123,"amountUSD":20000}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/whale-alerts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Record(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp recordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Added)
}

func TestWhaleRecordRejectsEmptyBody(t *testing.T) {
	h := NewWhaleHandler(&fakeWhaleService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/whale-alerts", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Record(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
