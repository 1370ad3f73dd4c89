package cmd

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/libstack/go-sip2/config"
	"github.com/libstack/go-sip2/store"
)

func newStopCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "stop [server-name]",
		Short: "Stop a running SIP2 server",
		Long:  "Signal the process behind a server record to terminate, or mark the record down when the process is already gone. Requires a shared datastore (redis backend).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runStop(cmd, cfgFile, name)
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default: sip2d.yaml in . or /etc/sip2d)")

	return cmd
}

func runStop(cmd *cobra.Command, cfgFile, name string) error {
	settings, err := config.Load(nil, cfgFile)
	if err != nil {
		return err
	}
	if name == "" {
		name = settings.ServerName
	}

	kv, err := openStore(settings)
	if err != nil {
		return err
	}
	defer kv.Close()

	records := store.NewRecords(kv)
	ctx := cmd.Context()

	record, err := records.FindServerByName(ctx, name)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("no server record named %q", name)
	}
	if !record.IsRunning() {
		cmd.Printf("server %q is not running\n", name)
		return nil
	}

	if record.ProcessID > 0 {
		proc, err := os.FindProcess(record.ProcessID)
		if err == nil {
			if err := proc.Signal(syscall.SIGTERM); err == nil {
				cmd.Printf("sent SIGTERM to server %q (pid %d)\n", name, record.ProcessID)
				return nil
			} else if !errors.Is(err, os.ErrProcessDone) {
				return fmt.Errorf("signal pid %d: %w", record.ProcessID, err)
			}
		}
	}

	// stale record, the process is gone
	if err := records.ServerDown(ctx, record); err != nil {
		return err
	}
	cmd.Printf("marked stale server %q down\n", name)

	return nil
}
