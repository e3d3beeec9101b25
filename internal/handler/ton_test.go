package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlexZinkM/ton-boc-backend/internal/metrics"
	"github.com/AlexZinkM/ton-boc-backend/internal/model"
	"github.com/AlexZinkM/ton-boc-backend/ton"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testBOC = "te6cckEBAQEAAgAAAEysuc0="

type fakeGenerator struct {
	gotTo     string
	gotAmount string
	err       error
}

func (f *fakeGenerator) GenerateBOC(_ context.Context, toAddress, amount string) (*model.BOCResponse, error) {
	f.gotTo, f.gotAmount = toAddress, amount
	if f.err != nil {
		return nil, f.err
	}
	return &model.BOCResponse{BOC: testBOC}, nil
}

func newTestHandler(gen BOCGenerator) (*TonHandler, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	return NewTonHandler(gen, "EQtestaddress", zap.New(core), m), logs
}

func postBOC(h *TonHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/generate-boc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.GenerateBOC(rec, req)
	return rec
}

func assertGenericFailure(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Failed to generate BOC"}`, rec.Body.String())
}

func TestGenerateBOC_OK(t *testing.T) {
	gen := &fakeGenerator{}
	h, _ := newTestHandler(gen)

	rec := postBOC(h, `{"toAddress":"EQdest","amount":"0.05"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.BOCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testBOC, resp.BOC)
	assert.Equal(t, "EQdest", gen.gotTo)
	assert.Equal(t, "0.05", gen.gotAmount)
}

func TestGenerateBOC_NumericAmount(t *testing.T) {
	gen := &fakeGenerator{}
	h, _ := newTestHandler(gen)

	rec := postBOC(h, `{"toAddress":"EQdest","amount":1.25}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.25", gen.gotAmount)
}

func TestGenerateBOC_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		kind string
	}{
		{
			name: "malformed json",
			body: `{"toAddress":`,
			kind: metrics.OutcomeBadRequest,
		},
		{
			name: "amount of wrong type",
			body: `{"toAddress":"EQdest","amount":true}`,
			kind: metrics.OutcomeBadRequest,
		},
		{
			name: "invalid address",
			body: `{"toAddress":"not-an-address","amount":"1"}`,
			err:  &ton.Error{Kind: ton.KindValidation, Op: "parse destination", Err: errors.New("bad checksum")},
			kind: "validation",
		},
		{
			name: "seqno fetch failed",
			body: `{"toAddress":"EQdest","amount":"1"}`,
			err:  &ton.Error{Kind: ton.KindNetwork, Op: "fetch seqno", Err: errors.New("connection refused")},
			kind: "network",
		},
		{
			name: "untagged error",
			body: `{"toAddress":"EQdest","amount":"1"}`,
			err:  errors.New("boom"),
			kind: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, logs := newTestHandler(&fakeGenerator{err: tt.err})

			rec := postBOC(h, tt.body)

			assertGenericFailure(t, rec)
			entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.kind, entries[0].ContextMap()["kind"])
			if tt.err != nil {
				assert.Contains(t, entries[0].ContextMap()["error"], tt.err.Error())
			}
		})
	}
}

func TestGenerateBOC_MethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(&fakeGenerator{})

	rec := httptest.NewRecorder()
	h.GenerateBOC(rec, httptest.NewRequest(http.MethodGet, "/generate-boc", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenerateBOC_BodyTooLarge(t *testing.T) {
	h, _ := newTestHandler(&fakeGenerator{})

	body := `{"toAddress":"` + strings.Repeat("a", maxBodyBytes) + `","amount":"1"}`
	rec := postBOC(h, body)

	assertGenericFailure(t, rec)
}

type failingSeqnos struct{}

func (failingSeqnos) GetSeqno(context.Context, *address.Address) (uint32, error) {
	return 0, errors.New("rpc unavailable")
}

func TestGenerateBOC_NeverExposesSecret(t *testing.T) {
	words := strings.Fields("abandon ability able about above absent absorb abstract absurd abuse access accident " +
		"account accuse achieve acid acoustic acquire across act action actor actress actual")
	w, err := ton.WalletFromMnemonic(words)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	svc := ton.NewTransferService(w, failingSeqnos{}, log)
	h := NewTonHandler(svc, w.Address().String(), log, nil)

	rec := postBOC(h, `{"toAddress":"`+w.Address().String()+`","amount":"1"}`)

	assertGenericFailure(t, rec)
	phrase := strings.Join(words, " ")
	assert.NotContains(t, rec.Body.String(), "abandon")
	for _, e := range logs.All() {
		assert.NotContains(t, e.Message, phrase)
		for _, v := range e.ContextMap() {
			s, _ := v.(string)
			assert.NotContains(t, s, phrase)
		}
	}
	assert.Equal(t, "network", logs.FilterMessage("failed to generate BOC").All()[0].ContextMap()["kind"])
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(&fakeGenerator{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","address":"EQtestaddress"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
