package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdantbooks/receiptor/internal/api"
	"github.com/verdantbooks/receiptor/internal/normalize"
	"github.com/verdantbooks/receiptor/internal/pipeline"
	"github.com/verdantbooks/receiptor/internal/receipt"
	"github.com/verdantbooks/receiptor/internal/svcctx"
)

// maxUploadMemory bounds the in-memory portion of a multipart parse.
const maxUploadMemory = 32 << 20 // 32MB

// ParseFailureResponse is returned when the model reply contains no
// usable JSON object. The raw reply and transcript are included so the
// caller can retry or inspect.
type ParseFailureResponse struct {
	Error   string `json:"error"`
	Raw     string `json:"raw"`
	OCRText string `json:"ocrText"`
}

// ValidationFailureResponse is returned when the structured document
// fails schema validation after coercion.
type ValidationFailureResponse struct {
	Error   string          `json:"error"`
	Issues  []receipt.Issue `json:"issues"`
	Raw     any             `json:"raw"`
	OCRText string          `json:"ocrText"`
}

// ProcessEndpoint handles POST /api/receipts/process with a multipart
// receipt upload.
type ProcessEndpoint struct{}

var _ api.Endpoint = (*ProcessEndpoint)(nil)

func (e *ProcessEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/receipts/process", e.handler
}

func (e *ProcessEndpoint) RequiresInit() bool { return true }

func (e *ProcessEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	// A blank ocrText field is not a supplied transcript; fall through
	// to the file.
	in := pipeline.Input{Transcript: strings.TrimSpace(r.FormValue("ocrText"))}

	if in.Transcript == "" {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file or ocrText")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read file: %v", err))
			return
		}
		in.Image = data
	}

	p := svcctx.PipelineFrom(r.Context())
	if p == nil {
		writeError(w, http.StatusServiceUnavailable, "pipeline not initialized")
		return
	}

	rec, err := p.Process(r.Context(), in)
	if err != nil {
		e.writeProcessError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// writeProcessError maps pipeline failures onto HTTP statuses: decode
// failures are the caller's fault, unparseable model replies are an
// upstream fault, and validation failures carry the evidence needed to
// debug the model's output.
func (e *ProcessEndpoint) writeProcessError(w http.ResponseWriter, err error) {
	var decodeErr *normalize.DecodeError
	var parseErr *pipeline.ResponseParseError
	var validationErr *pipeline.ValidationError

	switch {
	case errors.As(err, &decodeErr):
		writeError(w, http.StatusBadRequest, decodeErr.Error())
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusBadGateway, ParseFailureResponse{
			Error:   parseErr.Error(),
			Raw:     parseErr.Raw,
			OCRText: parseErr.Transcript,
		})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationFailureResponse{
			Error:   validationErr.Error(),
			Issues:  validationErr.Issues,
			Raw:     validationErr.Raw,
			OCRText: validationErr.Transcript,
		})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (e *ProcessEndpoint) Command(getServerURL func() string) *cobra.Command {
	var ocrText string

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Extract structured data from a receipt",
		Long: `Send a receipt image (or pre-extracted OCR text) to the running
server and print the structured record.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && ocrText == "" {
				return errors.New("provide a receipt file or --ocr-text")
			}

			var file io.Reader
			var fileName string
			if len(args) > 0 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open receipt: %w", err)
				}
				defer f.Close()
				file = f
				fileName = filepath.Base(args[0])
			}

			fields := map[string]string{}
			if ocrText != "" {
				fields["ocrText"] = ocrText
			}

			client := api.NewClient(getServerURL())
			var rec receipt.Record
			if err := client.PostMultipart(cmd.Context(), "/api/receipts/process", "file", fileName, file, fields, &rec); err != nil {
				return err
			}
			return api.Output(rec)
		},
	}

	cmd.Flags().StringVar(&ocrText, "ocr-text", "", "Pre-extracted receipt text (skips upload and OCR)")
	return cmd
}
