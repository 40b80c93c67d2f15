package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coreauction/auctiond/internal/config"
	"github.com/coreauction/auctiond/internal/node"
	"github.com/coreauction/auctiond/internal/storage/history"
)

var (
	standalone bool
	dataDir    string
	bindAddr   string
	port       int
)

// serverCmd starts the node; it is also the default command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the auction node",
	Long: `Start the auctiond server: the ledger state machine, the automatic
close loop (unless standalone), and the JSON-RPC and WebSocket API.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.RunE = serverCmd.RunE

	serverCmd.Flags().BoolVar(&standalone, "standalone", false, "close ledgers only via ledger_accept")
	serverCmd.Flags().StringVar(&dataDir, "data-dir", "", "ledger database directory (empty runs in memory)")
	serverCmd.Flags().StringVar(&bindAddr, "bind", "", "address to bind the RPC server to")
	serverCmd.Flags().IntVarP(&port, "port", "p", 0, "port for the RPC server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	// Flags override the config file
	if standalone {
		cfg.Ledger.Standalone = true
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	if bindAddr != "" {
		cfg.Server.BindAddr = bindAddr
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	nodeCfg := node.Config{
		DataDir:       cfg.Storage.DataDir,
		RPCAddr:       cfg.Server.Addr(),
		BaseFee:       cfg.Ledger.BaseFee,
		Standalone:    cfg.Ledger.Standalone,
		CloseInterval: cfg.Ledger.CloseInterval,
		CacheSize:     cfg.Ledger.CacheSize,
	}
	nodeCfg.Genesis.Supply = cfg.Ledger.GenesisSupply
	if cfg.History.Enabled {
		nodeCfg.History = historyConfig(cfg)
	}

	n, err := node.New(nodeCfg)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("auctiond starting\n")
		fmt.Printf("  - JSON-RPC:  http://%s/\n", cfg.Server.Addr())
		fmt.Printf("  - WebSocket: ws://%s/ws\n", cfg.Server.Addr())
		if cfg.Ledger.Standalone {
			fmt.Printf("  - Standalone mode: ledgers close via ledger_accept\n")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return n.Run(ctx)
}

func historyConfig(cfg *config.Config) *history.Config {
	if cfg.History.Driver == "postgres" {
		hc := history.PostgresConfig(cfg.History.Host, cfg.History.Port,
			cfg.History.Database, cfg.History.Username, cfg.History.Password)
		hc.SSLMode = cfg.History.SSLMode
		return hc
	}
	return history.SQLiteConfig(cfg.History.Path)
}
