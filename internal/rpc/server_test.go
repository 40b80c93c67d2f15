package rpc_test

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coreauction/auctiond/internal/core/ledger"
	"github.com/coreauction/auctiond/internal/core/ledger/genesis"
	"github.com/coreauction/auctiond/internal/core/ledger/keylet"
	"github.com/coreauction/auctiond/internal/core/ledger/manager"
	"github.com/coreauction/auctiond/internal/core/registry"
	"github.com/coreauction/auctiond/internal/core/tx"
	_ "github.com/coreauction/auctiond/internal/core/tx/payment"
	"github.com/coreauction/auctiond/internal/rpc"
	"github.com/coreauction/auctiond/internal/storage/history"
	jtx "github.com/coreauction/auctiond/internal/testing"
)

// testNode serves the rpc.Node surface from a bare ledger manager.
type testNode struct {
	mgr   *manager.Manager
	start time.Time
}

func newTestNode(t *testing.T) *testNode {
	t.Helper()
	clock := jtx.NewManualClock()
	mgr, err := manager.New(nil, registry.New(), manager.Config{
		Clock:   clock,
		Genesis: genesis.Config{CloseTime: clock.Now()},
	})
	require.NoError(t, err)
	return &testNode{mgr: mgr, start: clock.Now()}
}

func (n *testNode) SubmitTransaction(txJSON []byte) (*rpc.SubmitResult, error) {
	txn, err := tx.FromJSON(txJSON)
	if err != nil {
		return nil, err
	}
	result, err := n.mgr.Submit(txn)
	if err != nil {
		return nil, err
	}
	return &rpc.SubmitResult{
		EngineResult:        result.Result.String(),
		EngineResultCode:    int(result.Result),
		EngineResultMessage: result.Message,
		Applied:             result.Applied,
		TxHash:              hex.EncodeToString(result.TxHash[:]),
		Fee:                 result.Fee,
		Metadata:            result.Metadata,
	}, nil
}

func (n *testNode) AcceptLedger() (uint32, error) {
	if _, err := n.mgr.Accept(); err != nil {
		return 0, err
	}
	return n.mgr.OpenLedger().Sequence(), nil
}

func (n *testNode) OpenLedger() *ledger.Ledger   { return n.mgr.OpenLedger() }
func (n *testNode) ClosedLedger() *ledger.Ledger { return n.mgr.ClosedLedger() }

func (n *testNode) LedgerBySequence(seq uint32) (*ledger.Ledger, error) {
	return n.mgr.GetLedgerBySequence(seq)
}

func (n *testNode) LedgerByHash(hash [32]byte) (*ledger.Ledger, error) {
	return n.mgr.GetLedgerByHash(hash)
}

func (n *testNode) StateEntry(key [32]byte) []byte {
	data, err := n.mgr.OpenLedger().State.Read(keylet.Keylet{Key: key})
	if err != nil {
		return nil
	}
	return data
}

func (n *testNode) BaseFee() uint64        { return n.mgr.BaseFee() }
func (n *testNode) History() history.Store { return nil }
func (n *testNode) StartTime() time.Time   { return n.start }

var _ rpc.Node = (*testNode)(nil)

func newTestServer(t *testing.T) (*rpc.Server, *testNode) {
	t.Helper()
	node := newTestNode(t)
	return rpc.NewServer(node, rpc.NewPublisher(), 5*time.Second), node
}

// call posts a JSON-RPC request and returns the result object.
func call(t *testing.T, server *rpc.Server, remoteAddr, method string, params map[string]interface{}) map[string]interface{} {
	t.Helper()

	request := map[string]interface{}{"method": method}
	if params != nil {
		request["params"] = []interface{}{params}
	}
	body, err := json.Marshal(request)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(string(body)))
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	result, ok := response["result"].(map[string]interface{})
	require.True(t, ok, "response has no result object")
	return result
}

func TestPing(t *testing.T) {
	server, _ := newTestServer(t)
	result := call(t, server, "10.0.0.9:1234", "ping", nil)
	require.Equal(t, "success", result["status"])
}

func TestUnknownMethod(t *testing.T) {
	server, _ := newTestServer(t)
	result := call(t, server, "10.0.0.9:1234", "no_such_method", nil)
	require.Equal(t, "error", result["status"])
	require.Equal(t, "unknownCmd", result["error"])
}

func TestServerInfoOverGet(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/?command=server_info", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	result := response["result"].(map[string]interface{})
	require.Equal(t, "success", result["status"])
	info := result["info"].(map[string]interface{})
	require.Equal(t, "full", info["server_state"])
}

func TestSubmitAndAccountInfo(t *testing.T) {
	server, _ := newTestServer(t)
	dest := jtx.NewAccount("dest")

	txJSON := fmt.Sprintf(`{
		"TransactionType": "Payment",
		"Account": %q,
		"Destination": %q,
		"Amount": 5000,
		"Fee": "10",
		"Sequence": 1
	}`, genesis.MasterAccountID.String(), dest.Address)

	result := call(t, server, "10.0.0.9:1234", "submit", map[string]interface{}{
		"tx_json": json.RawMessage(txJSON),
	})
	require.Equal(t, "success", result["status"])
	require.Equal(t, tx.TesSUCCESS.String(), result["engine_result"])
	require.Equal(t, true, result["applied"])

	info := call(t, server, "10.0.0.9:1234", "account_info", map[string]interface{}{
		"account": dest.Address,
	})
	require.Equal(t, "success", info["status"])
	data := info["account_data"].(map[string]interface{})
	require.Equal(t, float64(5000), data["Balance"])
}

func TestAccountInfoNotFound(t *testing.T) {
	server, _ := newTestServer(t)
	ghost := jtx.NewAccount("ghost")

	result := call(t, server, "10.0.0.9:1234", "account_info", map[string]interface{}{
		"account": ghost.Address,
	})
	require.Equal(t, "error", result["status"])
	require.Equal(t, "actNotFound", result["error"])
}

func TestLedgerAcceptAdminGating(t *testing.T) {
	server, node := newTestServer(t)
	seqBefore := node.OpenLedger().Sequence()

	// Remote callers may not close ledgers
	result := call(t, server, "10.0.0.9:1234", "ledger_accept", nil)
	require.Equal(t, "error", result["status"])
	require.Equal(t, "noPermission", result["error"])
	require.Equal(t, seqBefore, node.OpenLedger().Sequence())

	// Local callers may
	result = call(t, server, "127.0.0.1:50000", "ledger_accept", nil)
	require.Equal(t, "success", result["status"])
	require.Equal(t, seqBefore+1, node.OpenLedger().Sequence())
}

func TestLedgerQueries(t *testing.T) {
	server, node := newTestServer(t)

	result := call(t, server, "10.0.0.9:1234", "ledger_current", nil)
	require.Equal(t, "success", result["status"])
	require.Equal(t, float64(node.OpenLedger().Sequence()), result["ledger_current_index"])

	result = call(t, server, "10.0.0.9:1234", "ledger_closed", nil)
	require.Equal(t, "success", result["status"])
	require.Equal(t, float64(1), result["ledger_index"])

	result = call(t, server, "10.0.0.9:1234", "ledger", map[string]interface{}{
		"ledger_index": float64(99),
	})
	require.Equal(t, "error", result["status"])
	require.Equal(t, "lgrNotFound", result["error"])
}
