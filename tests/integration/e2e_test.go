//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeledger/homeledger-backend/internal/adapter/repository/postgres"
)

var (
	db      *postgres.DB
	baseURL string
)

// TestMain sets up the test environment: a reachable Postgres and a
// running server pointed at the same database
func TestMain(m *testing.M) {
	connStr := getenv("TEST_DB_CONN_STR",
		"host=localhost port=5432 user=postgres password=postgres dbname=homeledger sslmode=disable")

	var err error
	db, err = postgres.NewDB(connStr)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	baseURL = getenv("TEST_SERVER_URL", "http://localhost:8080")

	os.Exit(m.Run())
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// call performs an authenticated JSON request against the running server
func call(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Email", getenv("TEST_AUTH_EMAIL", "alice@example.com"))
	req.Header.Set("X-Auth-Email-Verified", "true")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func seedWallet(t *testing.T, uahBalance string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`INSERT INTO wallets (id, name, wallet_type) VALUES ($1, $2, 'card')`, id, "itest-"+id[:8])
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO wallet_balances (wallet_id, currency, balance) VALUES ($1, 'UAH', $2)`, id, uahBalance)
	require.NoError(t, err)
	return id
}

func walletBalance(t *testing.T, walletID string) string {
	t.Helper()

	var balance string
	err := db.QueryRow(
		`SELECT balance FROM wallet_balances WHERE wallet_id = $1 AND currency = 'UAH'`, walletID,
	).Scan(&balance)
	require.NoError(t, err)
	return balance
}

func TestExpenseLifecycle(t *testing.T) {
	walletID := seedWallet(t, "1000")

	code, body := call(t, "POST", "/api/transactions", map[string]interface{}{
		"type":     "expense",
		"owner":    "me",
		"walletId": walletID,
		"amount":   200,
		"currency": "UAH",
	})
	require.Equal(t, 200, code, "body: %v", body)
	txID := body["id"].(string)

	assert.Equal(t, "800", walletBalance(t, walletID))

	code, _ = call(t, "DELETE", "/api/transactions/"+txID, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, "1000", walletBalance(t, walletID))
}

func TestTransferUpdate(t *testing.T) {
	source := seedWallet(t, "500")
	target := seedWallet(t, "0")

	code, body := call(t, "POST", "/api/transactions", map[string]interface{}{
		"type":           "transfer",
		"owner":          "wife",
		"walletId":       source,
		"targetWalletId": target,
		"amount":         150,
		"currency":       "UAH",
	})
	require.Equal(t, 200, code, "body: %v", body)
	txID := body["id"].(string)

	assert.Equal(t, "350", walletBalance(t, source))
	assert.Equal(t, "150", walletBalance(t, target))

	code, body = call(t, "PUT", "/api/transactions/"+txID, map[string]interface{}{
		"type":           "transfer",
		"owner":          "wife",
		"walletId":       source,
		"targetWalletId": target,
		"amount":         50,
		"currency":       "UAH",
	})
	require.Equal(t, 200, code, "body: %v", body)

	assert.Equal(t, "450", walletBalance(t, source))
	assert.Equal(t, "50", walletBalance(t, target))
}

func TestDebtPaymentCompletesDebt(t *testing.T) {
	code, body := call(t, "POST", "/api/debts", map[string]interface{}{
		"title":       "itest loan",
		"direction":   "owedToMe",
		"totalAmount": 1000,
		"currency":    "USD",
	})
	require.Equal(t, 200, code, "body: %v", body)
	debtID := body["id"].(string)

	code, _ = call(t, "POST", "/api/debts/"+debtID+"/payments", map[string]interface{}{"amount": 1000})
	require.Equal(t, 200, code)

	var paid, status string
	err := db.QueryRow(`SELECT paid_amount, status FROM debts WHERE id = $1`, debtID).Scan(&paid, &status)
	require.NoError(t, err)
	assert.Equal(t, "1000", paid)
	assert.Equal(t, "paid", status)
}

func TestGoalFloorIsEnforced(t *testing.T) {
	code, body := call(t, "POST", "/api/goals", map[string]interface{}{
		"title":        "itest goal",
		"targetAmount": 500,
		"currency":     "EUR",
	})
	require.Equal(t, 200, code, "body: %v", body)
	goalID := body["id"].(string)

	code, _ = call(t, "POST", "/api/goals/"+goalID+"/adjust", map[string]interface{}{"delta": -100})
	assert.Equal(t, 400, code)

	code, _ = call(t, "POST", "/api/goals/"+goalID+"/adjust", map[string]interface{}{"delta": 500})
	require.Equal(t, 200, code)

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM goals WHERE id = $1`, goalID).Scan(&status))
	assert.Equal(t, "completed", status)
}
