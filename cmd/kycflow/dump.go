package main

import (
	"encoding/json"
	"fmt"

	"kycflow/adapters/excel"
	"kycflow/internal/normalize"

	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var sheet string
	var bank bool

	cmd := &cobra.Command{
		Use:   "dump [workbook]",
		Short: "Print the converted records of a workbook as JSON",
		Long: `Convert one sheet of a workbook the way the convert service does and print it.

Example: kycflow dump sample_excel_api.xlsx --sheet Bank_Data --bank`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := excel.NewDataReader(args[0]).ReadSheet(sheet)
			if err != nil {
				return err
			}

			normalizer := normalize.NewDefault()
			var out interface{}
			if bank {
				records := make([]interface{}, 0, len(data.Rows))
				for _, row := range data.Rows {
					record, err := normalizer.Bank(row)
					if err != nil {
						return err
					}
					records = append(records, record)
				}
				out = records
			} else {
				records, err := normalizer.Records(data)
				if err != nil {
					return err
				}
				out = records
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().BoolVar(&bank, "bank", false, "Rows are bank rows")
	return cmd
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [workbook]",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := excel.NewDataReader(args[0]).SheetNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
