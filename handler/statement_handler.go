package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/tradetax/k4-statement-service/dto"
	"github.com/tradetax/k4-statement-service/service"
)

type StatementHandler struct {
	statementService *service.StatementService
}

func NewStatementHandler(statementService *service.StatementService) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
	}
}

// ProcessStatement handles the POST /api/process-statement endpoint
func (h *StatementHandler) ProcessStatement(c *gin.Context) {
	log.Println("Received statement processing request")

	var input dto.FormInput
	if err := c.ShouldBind(&input); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	if err := input.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Statement file is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	// The statement is staged in a temp file for the duration of the
	// request and removed on every exit path.
	tempFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to create temporary file", err)
		return
	}
	tempPath := tempFile.Name()
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			log.Printf("Error cleaning up temporary file %s: %v", tempPath, err)
		}
	}()

	if _, err := io.Copy(tempFile, file); err != nil {
		tempFile.Close()
		h.sendError(c, http.StatusInternalServerError, "Failed to write temporary file", err)
		return
	}
	tempFile.Close()

	log.Printf("Processing statement for tax year %s", input.TaxYear)

	pdfBytes, err := h.statementService.ProcessStatement(c.Request.Context(), tempPath, input)
	if err != nil {
		h.sendError(c, statusFor(err), "Failed to process statement", err)
		return
	}

	log.Println("Statement processed successfully")
	c.JSON(http.StatusOK, dto.ProcessStatementResponse{
		Status:     "success",
		Message:    "K4 form processed successfully",
		PDFContent: base64.StdEncoding.EncodeToString(pdfBytes),
	})
}

// statusFor maps a pipeline error to its HTTP status. Server-side
// misconfiguration is a 500; everything else is the client's 400.
func statusFor(err error) int {
	var pipelineErr *service.PipelineError
	if errors.As(err, &pipelineErr) && pipelineErr.Kind == service.KindConfig {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// sendError sends a structured error response
func (h *StatementHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "PROCESSING_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
