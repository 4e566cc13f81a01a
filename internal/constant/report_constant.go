package constant

const (
	DocumentSnippetChars = 15000
	SummarySnippetChars  = 6000

	// Summarization runs at the backend's minimum temperature.
	SummaryTemperature     = 0.0
	DefaultChatTemperature = 0.2

	NotSpecifiedInReport = "Not specified in the report"
	ReportLacksInfo      = "The report does not contain that information."

	UnsupportedFileTypeMessage = "Unsupported file type. Please upload PDF, CSV, XLSX, or TXT."
	PDFSupportMissingMessage   = "PDF support not available. Install a PDF reader backend to enable PDF parsing."
	SpreadsheetMissingMessage  = "Spreadsheet support not available. Install a spreadsheet reader backend to enable XLSX/XLS parsing."

	SummarySystemPromptV1 = `You are a report analysis assistant. You analyze operational and ERP-related documents such as downtime reports, production summaries, quality logs, change requests, service reports, and maintenance records.

Summarize the content in the following structured format:
1) Summary of Issue/Topic
2) Technical Findings
3) Business Impact
4) Immediate Corrective Actions
5) Follow-up Recommendations

Use concise bullet points under each heading. If a section is not applicable, write exactly: "` + NotSpecifiedInReport + `".`

	ChatSystemPromptV1 = `You are a report analysis assistant that answers questions about an uploaded report.

You MUST base your answers only on:
1) The original report text
2) The generated summary
3) The prior conversation history

If the user asks for information that is not present in the report, reply with exactly this sentence:
"` + ReportLacksInfo + `"

Be clear, concise, and use professional language suitable for operations, maintenance, supply chain, and finance stakeholders.`

	ChatContextIntro        = "Here is the current report context."
	ChatContextSummaryLabel = "=== SUMMARY ==="
	ChatContextReportLabel  = "=== ORIGINAL REPORT TEXT (SNIPPET) ==="
)
