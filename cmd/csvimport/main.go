// Command csvimport reads bank statement rows from a CSV file and submits
// them to the statement sync API as one import request.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/statement-sync/statement_sync_app/internal/dto"
)

// csvRow is one line of the input file. Column headers match the export
// format of the statement extraction tooling.
type csvRow struct {
	Date          string `csv:"date"`
	Description   string `csv:"description"`
	Debit         string `csv:"debit"`
	Credit        string `csv:"credit"`
	Amount        string `csv:"amount"`
	Type          string `csv:"type"`
	BankCode      string `csv:"bank_code"`
	TransactionID string `csv:"transaction_id"`
	AccountNumber string `csv:"account_number"`
	TransferType  string `csv:"transfer_type"`
	PersonName    string `csv:"person_name"`
	UPIID         string `csv:"upi_id"`
	Store         string `csv:"store"`
	Balance       string `csv:"balance"`
}

var (
	filePath        string
	apiURL          string
	token           string
	validateBalance bool
	background      bool
	forceInsert     bool
)

var rootCmd = &cobra.Command{
	Use:   "csvimport",
	Short: "Import a CSV bank statement through the statement sync API",
	RunE:  runImport,
}

func init() {
	rootCmd.Flags().StringVarP(&filePath, "file", "f", "", "CSV file to import")
	rootCmd.Flags().StringVarP(&apiURL, "api-url", "u", "http://localhost:8080", "Base URL of the API")
	rootCmd.Flags().StringVarP(&token, "token", "t", "", "Bearer token for authentication")
	rootCmd.Flags().BoolVar(&validateBalance, "validate-balance", false, "Validate declared balances against statement history")
	rootCmd.Flags().BoolVar(&background, "background", false, "Categorize in the background")
	rootCmd.Flags().BoolVar(&forceInsert, "force", false, "Skip the duplicate check against stored transactions")
	rootCmd.MarkFlagRequired("file")
	rootCmd.MarkFlagRequired("token")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	var rows []csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no records found in %s", filePath)
	}

	records := make([]dto.ImportRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, dto.ImportRecord{
			Date:          row.Date,
			Description:   row.Description,
			Debit:         parseAmount(row.Debit),
			Credit:        parseAmount(row.Credit),
			Amount:        parseAmount(row.Amount),
			Type:          row.Type,
			BankCode:      row.BankCode,
			TransactionID: row.TransactionID,
			AccountNumber: row.AccountNumber,
			TransferType:  row.TransferType,
			PersonName:    row.PersonName,
			UPIID:         row.UPIID,
			Store:         row.Store,
			Balance:       parseAmount(row.Balance),
		})
	}

	req := dto.ImportRequest{
		Records:                records,
		ValidateBalance:        validateBalance,
		CategorizeInBackground: background,
		ForceInsert:            forceInsert,
	}

	resp, err := postImport(req)
	if err != nil {
		return err
	}

	fmt.Printf("inserted: %d\nduplicates: %d\nskipped: %d\n", resp.Inserted, resp.Duplicates, resp.Skipped)
	for _, w := range resp.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, e := range resp.Errors {
		fmt.Printf("error: %s\n", e)
	}
	return nil
}

func parseAmount(value string) *decimal.Decimal {
	if value == "" {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil
	}
	return &d
}

func postImport(req dto.ImportRequest) (*dto.ImportResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, apiURL+"/api/v1/transactions/import", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 5 * time.Minute}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("import request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("import rejected with status %d: %s", httpResp.StatusCode, respBody)
	}

	var resp dto.ImportResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
