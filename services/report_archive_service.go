package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	config "github.com/jptandoc/turo_backend/configs"
	"github.com/jptandoc/turo_backend/database"
	"github.com/jptandoc/turo_backend/models"
)

// ArchivePayoutReport renders a payout report to a PDF and uploads it to
// Cloudinary, storing the archive URL back on the report row. Archival is
// best-effort: the jsonb snapshot is already persisted and any failure here
// is logged, never surfaced to the admin who generated the report.
func ArchivePayoutReport(report *models.PayoutReport) {
	var data PayoutReportData
	if err := json.Unmarshal(report.ReportData, &data); err != nil {
		log.Printf("🔥 Failed to decode report %s for archival: %v", report.ID, err)
		return
	}

	htmlData, err := renderReportHTML(data)
	if err != nil {
		log.Printf("🔥 Failed to render payout report HTML: %v", err)
		return
	}

	pdfBytes, err := printReportPDF(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to print payout report PDF: %v", err)
		return
	}

	archiveURL, err := uploadReportArchive(pdfBytes, report.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload payout report archive: %v", err)
		return
	}

	if err := database.DB.Model(&models.PayoutReport{}).
		Where("id = ?", report.ID).
		Update("archive_url", archiveURL).Error; err != nil {
		log.Printf("🔥 Failed to record archive URL for report %s: %v", report.ID, err)
		return
	}
	log.Printf("✅ Archived payout report %s", report.ID)
}

func renderReportHTML(data PayoutReportData) (string, error) {
	tmpl, err := template.ParseFiles("templates/payout_report.html")
	if err != nil {
		return "", err
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func printReportPDF(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReportArchive(fileBytes []byte, reportID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("payout_reports/%s", reportID),
		Folder:       "turo_payout_reports",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
