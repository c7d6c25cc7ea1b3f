package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional; the environment wins over values already set
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "kycflow",
		Short:         "Spreadsheet onboarding and KYC relay services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCmd(serviceConvert),
		newServeCmd(serviceBank),
		newServeCmd(serviceRelay),
		newServeCmd(serviceKYC),
		newAllCmd(),
		newDumpCmd(),
		newSheetsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
