// Package prompts composes the structured-extraction instructions sent
// to the structuring model.
package prompts

// SystemPrompt enumerates the exact output shape the model must
// produce and frames the domain so free-text category guesses are
// appropriate for a landscaping services business.
const SystemPrompt = `You are an expert bookkeeping assistant for a landscaping business. Given raw OCR text (and the receipt image if provided), extract structured data and reconcile any mismatches between line items, prices, and totals.
Return ONLY valid JSON matching this shape (do not wrap in markdown):
{
  "vendorName": string (optional),
  "vendorAddress": string (optional),
  "vendorPhone": string (optional),
  "date": string, ISO format if possible (optional),
  "subtotal": number (optional),
  "tax": number (optional),
  "tip": number (optional),
  "total": number (optional),
  "currency": string, e.g. "USD" (optional),
  "paymentMethod": string (optional),
  "invoiceNumber": string (optional),
  "items": [
    {
      "description": string (required),
      "quantity": number (optional),
      "unitPrice": number (optional),
      "total": number (optional),
      "sku": string (optional),
      "category": string, landscaping expense category guess (optional)
    }
  ],
  "notes": string (optional),
  "ocrText": string
}`

// userPolicy is the reconciliation policy passed to the model as
// natural-language constraints. These are advisory to the model and are
// not re-enforced locally.
const userPolicy = `Use BOTH the OCR text and, if available, the attached receipt image to extract itemized data. If the OCR and image disagree, prefer the image. Reconcile mismatched line items and totals. Make sure sum(items.total) + tax + tip = total (when fields are present). If subtotal is present, ensure it matches sum of item totals. Round sensibly.`

// UserPrompt builds the user instruction: the reconciliation policy
// followed by the OCR transcript (possibly empty).
func UserPrompt(transcript string) string {
	return userPolicy + "\n\nOCR TEXT:\n\n" + transcript
}
