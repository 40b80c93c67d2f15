package rpc

// registerAllMethods wires every RPC method into the registry
func (s *Server) registerAllMethods() {
	// Server methods
	s.registry.Register("ping", &PingMethod{})
	s.registry.Register("server_info", &ServerInfoMethod{node: s.node})
	s.registry.Register("fee", &FeeMethod{node: s.node})

	// Ledger methods
	s.registry.Register("ledger", &LedgerMethod{node: s.node})
	s.registry.Register("ledger_closed", &LedgerClosedMethod{node: s.node})
	s.registry.Register("ledger_current", &LedgerCurrentMethod{node: s.node})
	s.registry.Register("ledger_entry", &LedgerEntryMethod{node: s.node})

	// Transaction methods
	s.registry.Register("submit", &SubmitMethod{node: s.node, publisher: s.publisher})
	s.registry.Register("tx", &TxMethod{node: s.node})

	// Account methods
	s.registry.Register("account_info", &AccountInfoMethod{node: s.node})
	s.registry.Register("account_tx", &AccountTxMethod{node: s.node})

	// Auction methods
	s.registry.Register("policy_info", &PolicyInfoMethod{node: s.node})
	s.registry.Register("whitelist_info", &WhitelistInfoMethod{node: s.node})
	s.registry.Register("auction_info", &AuctionInfoMethod{node: s.node})
	s.registry.Register("asset_info", &AssetInfoMethod{node: s.node})
	s.registry.Register("collection_sales", &CollectionSalesMethod{node: s.node})

	// Standalone mode
	s.registry.Register("ledger_accept", &LedgerAcceptMethod{node: s.node, publisher: s.publisher})
}
