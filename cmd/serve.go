package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/libstack/go-sip2/acs"
	"github.com/libstack/go-sip2/config"
	"github.com/libstack/go-sip2/internal/demo"
	"github.com/libstack/go-sip2/server"
	"github.com/libstack/go-sip2/sip2"
	"github.com/libstack/go-sip2/store"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SIP2 server",
		Long:  "Run the SIP2 server in the foreground until interrupted. Without a real library backend configured, a built-in demo library answers the terminals.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfgFile)
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default: sip2d.yaml in . or /etc/sip2d)")

	return cmd
}

func runServe(ctx context.Context, cfgFile string) error {
	settings, err := config.Load(nil, cfgFile)
	if err != nil {
		return err
	}

	log := newLogger(settings)

	kv, err := openStore(settings)
	if err != nil {
		return err
	}
	defer kv.Close()

	records := store.NewRecords(kv)
	registry := sip2.DefaultRegistry()
	catalog := sip2.DefaultCatalog(registry)

	acsCfg := &acs.Config{
		ProtocolVersion:       settings.ACS.ProtocolVersion,
		OnlineStatus:          settings.ACS.OnlineStatus,
		CheckinOK:             settings.ACS.CheckinOK,
		CheckoutOK:            settings.ACS.CheckoutOK,
		RenewalPolicy:         settings.ACS.RenewalPolicy,
		OfflineOK:             settings.ACS.OfflineOK,
		TimeoutPeriod:         settings.ACS.TimeoutPeriod,
		RetriesAllowed:        settings.ACS.RetriesAllowed,
		DefaultSecurityMarker: settings.ACS.DefaultSecurityMarker,
		DefaultLanguage:       settings.ACS.DefaultLanguage,
	}

	library := demo.NewSeededLibrary()
	dispatcher, err := acs.NewDispatcher(catalog, acsCfg, library.Handlers(), log)
	if err != nil {
		return err
	}

	srvCfg, err := server.NewConfig(settings.Host, settings.Port,
		server.WithServerName(settings.ServerName),
		server.WithRemoteApp(settings.RemoteApp),
		server.WithErrorDetection(settings.ErrorDetection),
		server.WithLineTerminator(settings.LineTerminator),
		server.WithTextEncoding(settings.TextEncoding),
		server.WithReadTimeout(settings.ReadTimeout),
		server.WithWriteTimeout(settings.WriteTimeout),
		server.WithMaxConnections(settings.MaxConnections),
		server.WithLogger(log),
	)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(srvCfg, registry, catalog, dispatcher, records)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(runCtx); err != nil {
		return err
	}

	<-runCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
