package rpc

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"
)

// BuildVersion is reported by server_info
const BuildVersion = "0.3.0"

// PingMethod answers liveness checks
type PingMethod struct{}

func (m *PingMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	return map[string]interface{}{}, nil
}

func (m *PingMethod) AdminOnly() bool { return false }

// ServerInfoMethod reports node status
type ServerInfoMethod struct {
	node Node
}

func (m *ServerInfoMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	open := m.node.OpenLedger()
	closed := m.node.ClosedLedger()

	info := map[string]interface{}{
		"build_version":        BuildVersion,
		"server_state":         "full",
		"uptime":               int64(time.Since(m.node.StartTime()).Seconds()),
		"base_fee":             m.node.BaseFee(),
		"ledger_current_index": open.Sequence(),
	}
	if closed != nil {
		hash := closed.Hash()
		info["validated_ledger"] = map[string]interface{}{
			"seq":        closed.Sequence(),
			"hash":       hex.EncodeToString(hash[:]),
			"close_time": closed.Header.CloseTime,
		}
		info["complete_ledgers"] = "1-" + strconv.FormatUint(uint64(closed.Sequence()), 10)
	}

	return map[string]interface{}{"info": info}, nil
}

func (m *ServerInfoMethod) AdminOnly() bool { return false }

// FeeMethod reports the current fee settings
type FeeMethod struct {
	node Node
}

func (m *FeeMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	return map[string]interface{}{
		"current_ledger_size": len(m.node.OpenLedger().Txns),
		"units": map[string]interface{}{
			"base_fee": m.node.BaseFee(),
		},
		"ledger_current_index": m.node.OpenLedger().Sequence(),
	}, nil
}

func (m *FeeMethod) AdminOnly() bool { return false }
