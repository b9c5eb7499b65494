package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	filePath    string
	location    string
	export      bool
	outputName  string
	waitTimeout time.Duration

	rootCmd = &cobra.Command{
		Use:           "triage",
		Short:         "Enrich O2A incident exports with order status and an 8-hour SLA disposition",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Triage one uploaded incident workbook and write processed_data.xlsx",
		RunE:  runTriage, // cmd_run.go
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create AUTO_INC_TRIAGE and TRIAGE_BATCH in the sink database",
		RunE:  runMigrate, // cmd_batch.go
	}

	batchCmd = &cobra.Command{
		Use:   "batch [batch_id]",
		Short: "Show the audit record of an exported batch",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowBatch, // cmd_batch.go
	}

	waitCmd = &cobra.Command{
		Use:   "wait [batch_id]",
		Short: "Block until the worker publishes the batch-complete notification",
		Args:  cobra.ExactArgs(1),
		RunE:  runWait, // cmd_wait.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config/triage.yaml", "配置文件路径")

	runCmd.Flags().StringVarP(&filePath, "file", "f", "", "incident workbook (.xlsx)")
	runCmd.Flags().StringVarP(&location, "location", "l", "OFFSHORE", "OFFSHORE (India) or ONSHORE (Brazil)")
	runCmd.Flags().BoolVar(&export, "export", false, "insert the enriched rows into AUTO_INC_TRIAGE")
	runCmd.Flags().StringVarP(&outputName, "output", "o", "", "output file name inside triage.output_dir")
	_ = runCmd.MarkFlagRequired("file")

	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", 10*time.Minute, "how long to wait for the notification")

	rootCmd.AddCommand(runCmd, migrateCmd, batchCmd, waitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
