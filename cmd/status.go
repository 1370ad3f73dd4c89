package cmd

import (
	"github.com/spf13/cobra"

	"github.com/libstack/go-sip2/config"
	"github.com/libstack/go-sip2/store"
)

func newStatusCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show registered servers and their connected terminals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfgFile)
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default: sip2d.yaml in . or /etc/sip2d)")

	return cmd
}

func runStatus(cmd *cobra.Command, cfgFile string) error {
	settings, err := config.Load(nil, cfgFile)
	if err != nil {
		return err
	}

	kv, err := openStore(settings)
	if err != nil {
		return err
	}
	defer kv.Close()

	records := store.NewRecords(kv)
	ctx := cmd.Context()

	servers, err := records.AllServers(ctx)
	if err != nil {
		return err
	}
	if len(servers) == 0 {
		cmd.Println("no server records")
		return nil
	}

	for _, srv := range servers {
		cmd.Printf("%s\t%s:%d\t%s\tpid=%d\n", srv.Name, srv.Host, srv.Port, srv.Status, srv.ProcessID)
		if !srv.IsRunning() {
			continue
		}

		clients, err := records.ClientsOf(ctx, srv.ID)
		if err != nil {
			return err
		}
		for _, client := range clients {
			state := "anonymous"
			if client.Authenticated {
				state = "authenticated as " + client.UserID
			}
			cmd.Printf("  terminal %s:%d\t%s\n", client.IP, client.Port, state)
		}
	}

	return nil
}
