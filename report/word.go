package report

import (
	"io"
	"time"

	"baliance.com/gooxml/document"

	"jobboard/models"
)

// WriteApplicationsReport renders a company's received applications as a
// Word document: one heading per application with candidate, posting, status
// label and notes underneath.
func WriteApplicationsReport(w io.Writer, companyName string, applications []models.Application) error {
	doc := document.New()

	title := doc.AddParagraph().AddRun()
	title.Properties().SetBold(true)
	title.Properties().SetSize(16)
	title.AddText("Applications received - " + companyName)

	doc.AddParagraph().AddRun().AddText("Generated on " + time.Now().Format("2006-01-02 15:04"))
	doc.AddParagraph()

	for _, a := range applications {
		heading := doc.AddParagraph().AddRun()
		heading.Properties().SetBold(true)
		heading.AddText(a.CandidateName() + " - " + a.JobTitle())

		doc.AddParagraph().AddRun().AddText("Status: " + models.DisplayLabel(string(a.Status)))
		if a.CreatedAt != nil {
			doc.AddParagraph().AddRun().AddText("Submitted: " + a.CreatedAt.Format("2006-01-02"))
		}
		if a.Notes != "" {
			doc.AddParagraph().AddRun().AddText("Notes: " + a.Notes)
		}
		if a.CVURL != "" {
			doc.AddParagraph().AddRun().AddText("CV: " + a.CVURL)
		}
		doc.AddParagraph()
	}

	return doc.Save(w)
}
