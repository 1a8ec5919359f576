package tendem

import "github.com/effective-security/tendem-mcp/model"

// Tool names
const (
	ToolListTasks         = "list_tasks"
	ToolCreateTask        = "create_task"
	ToolGetTask           = "get_task"
	ToolApproveTask       = "approve_task"
	ToolCancelTask        = "cancel_task"
	ToolGetTaskResult     = "get_task_result"
	ToolGetAllTaskResults = "get_all_task_results"
	ToolDownloadArtifact  = "download_artifact"
)

// NoRefundNote is appended to the cancel confirmation
const NoRefundNote = "Costs are not refunded for tasks cancelled after approval."

const listTasksDescription = `List all Tendem tasks with their statuses.

Returns a paginated list of Tendem tasks, newest first.`

const createTaskDescription = `Create a new Tendem task for a human expert.

Poll get_task until AWAITING_APPROVAL to see the price.

After creation, poll with get_task until status is AWAITING_APPROVAL to see the price
(may take up to 10 minutes).

When creating a task consider available human expert specializations:
**1. data_scraping**
* Task types: High-volume data extraction, scraping, cleansing and
enrichment (web, social media, or document sets).
* Threshold: MUST be used when manual effort would exceed ~4 hours
OR when tools like Selenium/BS4/Apify are required.
**2. software_development**
* Task types: Debugging/refactoring existing code. Writing automation
scripts. Building full-stack apps (Python, Node, TS).
Building/adding features to WordPress, Woocommerce, Shopify based
websites and stores.
**3. design**
* Task types: Logos, Branding, Presentations (decks), Print Materials
(flyers/brochures/billboards), and Packaging.
**4. copywriting**
* Definition: Writing where style, tone, and usage of language is
important.
* Task types: SEO Writing, Newsletters, Press Releases, Case Studies,
Ad Copy, Landing Page texts, Social Media posts, UX Writing, Email
campaigns, Proofreading, editing, refining and humanizing ai text.
**5. general**
* Definition: Expert level knowledge not required, good at attention
to detail, using software and ai tools.
* Task types: Manual data collection, enrichment, cleaning and
analysis (incl. lead generation, contact list building), market
research, formatting documents, converting files.

Avoid tasks that:
**Required Regulated Expertise:** Medical diagnosis, legal advice,
PhD-level research, or real-money investment advice.
**Required access to private/internal systems without providing
credentials** e.g., "Check my email"

Returns the created task in DRAFT status.`

const getTaskDescription = `Get Tendem task status and details. Use to poll after create_task or approve_task.

Use to poll task status. After create_task, wait for AWAITING_APPROVAL to see price.
After approve_task, a human expert works on the task until COMPLETED (may take hours).

Returns the Tendem task including status and approval info if awaiting approval.`

const approveTaskDescription = `Approve a Tendem task and its price. A human expert will begin working (may take hours).

Call after reviewing the price in AWAITING_APPROVAL status. A human expert will then
work on the task until it reaches COMPLETED status (may take hours).`

const cancelTaskDescription = `Cancel a Tendem task. Costs are not refunded after approval.

Can be called at any time. Note: costs are not refunded if cancelled after approval.`

const getTaskResultDescription = `Get the final result text from a completed Tendem task.

Returns the content of the latest canvas, or an error text if the task is not completed.`

const getAllTaskResultsDescription = `Get all Tendem task results including intermediate drafts, from latest to oldest.

Returns paginated Tendem task results with canvas content.`

const downloadArtifactDescription = "Download a file artifact (image, document) from Tendem task results and save locally.\n\n" +
	"Artifact references appear in canvas content as:\n" +
	"```agents-reference\n" +
	model.ArtifactScheme + "<artifact_id>\n" +
	"```\n\n" +
	"Returns a confirmation with the saved file path and size."
