package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appfinance "github.com/feedlot/backend/internal/application/finance"
	"github.com/feedlot/backend/internal/domain/finance"
	"github.com/feedlot/backend/internal/domain/shared/valueobject"
	"github.com/feedlot/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories backing full-stack handler tests. The service
// under the handlers is the real one; only persistence is faked.

type memTransactionRepo struct {
	transactions map[uuid.UUID]*finance.FinancialTransaction
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{transactions: make(map[uuid.UUID]*finance.FinancialTransaction)}
}

func (r *memTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialTransaction, error) {
	tx, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	clone := *tx
	return &clone, nil
}

func (r *memTransactionRepo) FindByPeriod(ctx context.Context, year int, month time.Month) ([]finance.FinancialTransaction, error) {
	var out []finance.FinancialTransaction
	for _, tx := range r.transactions {
		if tx.AccruedIn(year, month) || tx.CashMovedIn(year, month) {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *memTransactionRepo) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.FinancialTransaction, int64, error) {
	var out []finance.FinancialTransaction
	for _, tx := range r.transactions {
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

func (r *memTransactionRepo) FindByNaturalKey(ctx context.Context, key finance.NaturalKey) (*finance.FinancialTransaction, error) {
	for _, tx := range r.transactions {
		if tx.ReferenceDate.Equal(key.ReferenceDate) &&
			tx.Description == key.Description &&
			tx.Amount.Equal(key.Amount) &&
			tx.RawCategory == key.RawCategory {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memTransactionRepo) Save(ctx context.Context, tx *finance.FinancialTransaction) error {
	clone := *tx
	r.transactions[tx.ID] = &clone
	return nil
}

func (r *memTransactionRepo) SaveAll(ctx context.Context, txs []*finance.FinancialTransaction) error {
	for _, tx := range txs {
		if err := r.Save(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

type memPeriodRepo struct {
	periods map[string]*finance.IntegratedAnalysisPeriod
}

func newMemPeriodRepo() *memPeriodRepo {
	return &memPeriodRepo{periods: make(map[string]*finance.IntegratedAnalysisPeriod)}
}

func memPeriodKey(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (r *memPeriodRepo) FindByID(ctx context.Context, id uuid.UUID) (*finance.IntegratedAnalysisPeriod, error) {
	for _, p := range r.periods {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memPeriodRepo) FindByPeriod(ctx context.Context, year, month int) (*finance.IntegratedAnalysisPeriod, error) {
	p, ok := r.periods[memPeriodKey(year, month)]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *memPeriodRepo) FindByYear(ctx context.Context, year int) ([]finance.IntegratedAnalysisPeriod, error) {
	var out []finance.IntegratedAnalysisPeriod
	for m := 1; m <= 12; m++ {
		if p, ok := r.periods[memPeriodKey(year, m)]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPeriodRepo) FindByRange(ctx context.Context, fromYear, fromMonth, toYear, toMonth int) ([]finance.IntegratedAnalysisPeriod, error) {
	var out []finance.IntegratedAnalysisPeriod
	y, m := fromYear, fromMonth
	for y < toYear || (y == toYear && m <= toMonth) {
		if p, ok := r.periods[memPeriodKey(y, m)]; ok {
			out = append(out, *p)
		}
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return out, nil
}

func (r *memPeriodRepo) Upsert(ctx context.Context, p *finance.IntegratedAnalysisPeriod) error {
	clone := *p
	r.periods[memPeriodKey(p.ReferenceYear, p.ReferenceMonth)] = &clone
	return nil
}

func (r *memPeriodRepo) Save(ctx context.Context, p *finance.IntegratedAnalysisPeriod) error {
	return r.Upsert(ctx, p)
}

type memLedgerSource struct {
	revenues []appfinance.LedgerRecord
	expenses []appfinance.LedgerRecord
}

func (s *memLedgerSource) FetchRevenues(ctx context.Context, year int, month time.Month) ([]appfinance.LedgerRecord, error) {
	return s.revenues, nil
}

func (s *memLedgerSource) FetchCattlePurchases(ctx context.Context, year int, month time.Month) ([]appfinance.LedgerRecord, error) {
	return nil, nil
}

func (s *memLedgerSource) FetchExpenses(ctx context.Context, year int, month time.Month) ([]appfinance.LedgerRecord, error) {
	return s.expenses, nil
}

func (s *memLedgerSource) FetchDeaths(ctx context.Context, year int, month time.Month) ([]appfinance.MortalityRecord, error) {
	return nil, nil
}

func newTestEngine(t *testing.T) (*gin.Engine, *memTransactionRepo) {
	t.Helper()

	saleDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	feedDate := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	source := &memLedgerSource{
		revenues: []appfinance.LedgerRecord{{
			ReferenceDate: saleDate,
			Description:   "Venda de Gado Gordo",
			Amount:        decimal.NewFromInt(50000),
			Type:          finance.TransactionTypeIncome,
			RawCategory:   "cattle_sales",
			CashFlowDate:  &saleDate,
		}},
		expenses: []appfinance.LedgerRecord{{
			ReferenceDate: feedDate,
			Description:   "Ração",
			Amount:        decimal.NewFromInt(20000),
			Type:          finance.TransactionTypeExpense,
			RawCategory:   "feed",
			CashFlowDate:  &feedDate,
		}},
	}

	txRepo := newMemTransactionRepo()
	periodRepo := newMemPeriodRepo()
	syncService := appfinance.NewTransactionSyncService(txRepo, source, source, nil)
	analysisService := appfinance.NewAnalysisService(periodRepo, txRepo, syncService, nil, nil, nil)

	engine := gin.New()
	r := engine.Group("/api/v1")
	NewAnalysisHandler(analysisService, nil).RegisterRoutes(r)
	NewTransactionHandler(analysisService, nil).RegisterRoutes(r)

	return engine, txRepo
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func generateMarch(t *testing.T, engine *gin.Engine) {
	t.Helper()
	w := doJSON(t, engine, "POST", "/api/v1/integrated-analysis", gin.H{"year": 2025, "month": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAnalysisHandlerGenerate(t *testing.T) {
	t.Run("generates a period from upstream records", func(t *testing.T) {
		engine, _ := newTestEngine(t)

		w := doJSON(t, engine, "POST", "/api/v1/integrated-analysis", gin.H{"year": 2025, "month": 3})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)

		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		var result appfinance.GenerateAnalysisResponse
		require.NoError(t, json.Unmarshal(data, &result))
		assert.Equal(t, 2025, result.Period.ReferenceYear)
		assert.Equal(t, 3, result.Period.ReferenceMonth)
		assert.True(t, result.Period.NetIncome.Equal(decimal.NewFromInt(30000)))
		assert.Equal(t, 2, result.Sync.Created)
	})

	t.Run("rejects invalid month with field details", func(t *testing.T) {
		engine, _ := newTestEngine(t)

		w := doJSON(t, engine, "POST", "/api/v1/integrated-analysis", gin.H{"year": 2025, "month": 13})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})
}

func TestAnalysisHandlerGetByPeriod(t *testing.T) {
	engine, _ := newTestEngine(t)
	generateMarch(t, engine)

	t.Run("returns the generated period", func(t *testing.T) {
		w := doJSON(t, engine, "GET", "/api/v1/integrated-analysis/periods/2025/3", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"period_label":"2025-03"`)
	})

	t.Run("missing period yields 404", func(t *testing.T) {
		w := doJSON(t, engine, "GET", "/api/v1/integrated-analysis/periods/2025/4", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("non-numeric month yields 400", func(t *testing.T) {
		w := doJSON(t, engine, "GET", "/api/v1/integrated-analysis/periods/2025/march", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalysisHandlerLifecycle(t *testing.T) {
	engine, _ := newTestEngine(t)
	generateMarch(t, engine)

	w := doJSON(t, engine, "POST", "/api/v1/integrated-analysis/periods/2025/3/submit-review", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"REVIEWING"`)

	w = doJSON(t, engine, "POST", "/api/v1/integrated-analysis/periods/2025/3/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"APPROVED"`)

	// Approved periods cannot be regenerated
	w = doJSON(t, engine, "POST", "/api/v1/integrated-analysis", gin.H{"year": 2025, "month": 3})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodePeriodLocked, resp.Error.Code)

	w = doJSON(t, engine, "POST", "/api/v1/integrated-analysis/periods/2025/3/reopen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"DRAFT"`)

	// Closing from draft skips states and is rejected
	w = doJSON(t, engine, "POST", "/api/v1/integrated-analysis/periods/2025/3/close", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAnalysisHandlerDashboard(t *testing.T) {
	engine, _ := newTestEngine(t)
	generateMarch(t, engine)

	w := doJSON(t, engine, "GET", "/api/v1/integrated-analysis/dashboard/2025", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"trends"`)
	assert.Contains(t, w.Body.String(), `"net_margin"`)
}

func TestAnalysisHandlerCompare(t *testing.T) {
	engine, _ := newTestEngine(t)
	generateMarch(t, engine)

	t.Run("aggregates the range", func(t *testing.T) {
		w := doJSON(t, engine, "GET", "/api/v1/integrated-analysis/compare?from_year=2025&from_month=1&to_year=2025&to_month=6", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"summary"`)
	})

	t.Run("missing bounds yield 400", func(t *testing.T) {
		w := doJSON(t, engine, "GET", "/api/v1/integrated-analysis/compare?from_year=2025", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransactionHandlerList(t *testing.T) {
	engine, _ := newTestEngine(t)
	generateMarch(t, engine)

	w := doJSON(t, engine, "GET", "/api/v1/financial-transactions?type=INCOME", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)

	w = doJSON(t, engine, "GET", "/api/v1/financial-transactions?type=BOGUS", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionHandlerConfirmCash(t *testing.T) {
	engine, txRepo := newTestEngine(t)

	refDate := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	tx, err := finance.NewFinancialTransaction(refDate, "Venda a prazo",
		valueobject.NewMoneyBRL(decimal.NewFromInt(10000)), finance.TransactionTypeIncome, "cattle_sales")
	require.NoError(t, err)
	require.NoError(t, txRepo.Save(context.Background(), tx))

	t.Run("confirms the cash date", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/financial-transactions/"+tx.ID.String()+"/confirm-cash",
			gin.H{"cash_flow_date": "2025-04-05T00:00:00Z"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"impacts_cash":true`)
		assert.Contains(t, w.Body.String(), `"cash_flow_date":"2025-04-05T00:00:00Z"`)
	})

	t.Run("double confirmation is rejected", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/financial-transactions/"+tx.ID.String()+"/confirm-cash",
			gin.H{"cash_flow_date": "2025-04-06T00:00:00Z"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown transaction yields 404", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/financial-transactions/"+uuid.NewString()+"/confirm-cash",
			gin.H{"cash_flow_date": "2025-04-05T00:00:00Z"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id yields 400", func(t *testing.T) {
		w := doJSON(t, engine, "POST", "/api/v1/financial-transactions/not-a-uuid/confirm-cash",
			gin.H{"cash_flow_date": "2025-04-05T00:00:00Z"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
