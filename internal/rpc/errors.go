package rpc

// RpcError is a JSON-RPC error with a short machine-readable error string
type RpcError struct {
	Code        int    `json:"error_code"`
	ErrorString string `json:"error"`
	Message     string `json:"error_message,omitempty"`
}

func (e RpcError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorString
}

// Error codes
const (
	RpcINVALID_PARAMS   = -32602
	RpcINTERNAL         = -32603
	RpcMETHOD_NOT_FOUND = -32601

	RpcMISSING_COMMAND  = 2
	RpcLGR_NOT_FOUND    = 15
	RpcACT_NOT_FOUND    = 19
	RpcTXN_NOT_FOUND    = 24
	RpcSTREAM_MALFORMED = 26
	RpcENTRY_NOT_FOUND  = 92
)

func NewRpcError(code int, errorString, message string) *RpcError {
	return &RpcError{Code: code, ErrorString: errorString, Message: message}
}

func RpcErrorInvalidParams(message string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", message)
}

func RpcErrorInternal(message string) *RpcError {
	return NewRpcError(RpcINTERNAL, "internal", message)
}

func RpcErrorMethodNotFound(method string) *RpcError {
	return NewRpcError(RpcMETHOD_NOT_FOUND, "unknownCmd", "Unknown method: "+method)
}

func RpcErrorLedgerNotFound() *RpcError {
	return NewRpcError(RpcLGR_NOT_FOUND, "lgrNotFound", "ledgerNotFound")
}

func RpcErrorAccountNotFound() *RpcError {
	return NewRpcError(RpcACT_NOT_FOUND, "actNotFound", "Account not found.")
}

func RpcErrorTransactionNotFound() *RpcError {
	return NewRpcError(RpcTXN_NOT_FOUND, "txnNotFound", "Transaction not found.")
}

func RpcErrorEntryNotFound() *RpcError {
	return NewRpcError(RpcENTRY_NOT_FOUND, "entryNotFound", "Ledger entry not found.")
}
