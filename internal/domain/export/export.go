// Package export generates campaign report downloads.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// CampaignRow is one line of the campaign report. The csv tags name
// the exported columns for both formats.
type CampaignRow struct {
	Handle                string `csv:"handle"`
	Brand                 string `csv:"brand"`
	ItemCode              string `csv:"item_code"`
	Quantity              int    `csv:"quantity"`
	SaleDate              string `csv:"sale_date"`
	ActualPostDate        string `csv:"actual_post_date"`
	Status                string `csv:"status"`
	OfferedAmount         string `csv:"offered_amount"`
	AgreedAmount          string `csv:"agreed_amount"`
	Likes                 int    `csv:"likes"`
	Comments              int    `csv:"comments"`
	ConsiderationComments int    `csv:"consideration_comments"`
}

// Repository loads report rows.
type Repository interface {
	ListCampaignRows(ctx context.Context, brand string) ([]CampaignRow, error)
}

// Service renders campaign reports.
type Service struct {
	repo Repository
}

// NewService creates a new export service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WriteCSV streams the brand's campaigns as CSV.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, brand string) error {
	rows, err := s.repo.ListCampaignRows(ctx, brand)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv export: %w", err)
	}
	return nil
}

const exportSheet = "Campaigns"

// WriteXLSX streams the brand's campaigns as an XLSX workbook.
func (s *Service) WriteXLSX(ctx context.Context, w io.Writer, brand string) error {
	rows, err := s.repo.ListCampaignRows(ctx, brand)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to create export sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := []any{
		"handle", "brand", "item_code", "quantity", "sale_date", "actual_post_date",
		"status", "offered_amount", "agreed_amount", "likes", "comments", "consideration_comments",
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address export row: %w", err)
		}
		values := []any{
			row.Handle, row.Brand, row.ItemCode, row.Quantity, row.SaleDate, row.ActualPostDate,
			row.Status, row.OfferedAmount, row.AgreedAmount, row.Likes, row.Comments, row.ConsiderationComments,
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write export row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
