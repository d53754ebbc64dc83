package services

import (
	"fmt"
	"strings"

	"github.com/briefly/briefly-backend/internal/models"
	"github.com/briefly/briefly-backend/internal/providers"
)

// pagesInfo concatenates the text of a page span with per-page markers, the
// shape the block prompts embed.
func pagesInfo(pages []models.Page) string {
	var b strings.Builder
	for _, page := range pages {
		fmt.Fprintf(&b, "--- PAGE %d ---\n%s\n\n", page.PageNumber, page.Text)
	}
	return b.String()
}

// imageParts returns one inline image part per page that has a rendered
// raster. Text-only extractions produce none.
func imageParts(pages []models.Page) []providers.Part {
	parts := make([]providers.Part, 0, len(pages))
	for _, page := range pages {
		if len(page.Image) > 0 {
			parts = append(parts, providers.ImagePart(page.Image))
		}
	}
	return parts
}

func blockSummaryPrompt(docName string, blockNumber, startPage, endPage int, pages []models.Page) string {
	return fmt.Sprintf(`You are Briefly, a virtual assistant specialized in summarizing documents.

Generate a concise and complete summary of the following block of pages (Block %d) from the document %q.
The summary must capture the key points and essential information, covering both the text and the visual content of the page images provided.

%s
Response format:
"BLOCK %d (Pages %d-%d):
[A summary capturing the key points of these pages in 3-5 sentences, including descriptions of any important visual elements]"

Keep the summary clear and direct, highlighting only the most relevant information. Include descriptions of any chart, table or image that matters.`,
		blockNumber, docName, pagesInfo(pages), blockNumber, startPage, endPage)
}

func blockQueryPrompt(docName, question string, blockNumber, startPage, endPage int, pages []models.Page) string {
	return fmt.Sprintf(`You are Briefly, a friendly and helpful virtual assistant.
The user's question is: %q
The question refers to Block %d (Pages %d-%d) of the document %q.

Use the following page content to answer:

%s
You are also given the images of those pages, analyze them as well.

Answer the user's question concisely and directly based on the provided information (text and images).
If the answer is not in the page content, say so clearly.
Cite the specific pages you refer to, and describe any visual content relevant to the question.`,
		question, blockNumber, startPage, endPage, docName, pagesInfo(pages))
}

func pageQueryPrompt(docName, question string, page models.Page) string {
	return fmt.Sprintf(`You are Briefly, a friendly and helpful virtual assistant.
The user's question is: %q
The question refers to page %d of the document %q.

Use the following content of page %d to answer:

--- PAGE TEXT ---
%s
--- END OF PAGE TEXT ---

You are also given an image of the full page, analyze it as well.

Answer the user's question concisely and directly based on the provided information (text and image).
If the answer is not in the page content, say so clearly.
Describe any visual content relevant to the question.`,
		question, page.PageNumber, docName, page.PageNumber, page.Text)
}

func generalQueryPrompt(question string) string {
	return fmt.Sprintf(`You are Briefly, a friendly and helpful virtual assistant.
The user's question is: %q

Answer the user's question concisely and directly.
If you need more information or context, ask for it kindly.

If the question is about a PDF document, remind the user that they can:
- type "get summary" to see the summary of the current block
- type "next block" to move to the next block
- ask about a specific block with "block N: your question"
- ask about a specific page with "page N: your question"

The system can also analyze images and visual content inside PDFs.`, question)
}
