package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tradetax/k4-statement-service/config"
	"github.com/tradetax/k4-statement-service/dto"
	"github.com/tradetax/k4-statement-service/utils"
)

// ChunkAnalyzer sends one analysis prompt to the hosted model.
type ChunkAnalyzer interface {
	AnalyzeChunk(ctx context.Context, prompt string) (string, error)
}

// ImageOCR extracts text from a scanned statement page.
type ImageOCR interface {
	ExtractTextFromImage(img image.Image) (string, error)
}

// minTextLayerLen is the smallest extracted text length considered usable;
// below it the statement is treated as scanned and sent through OCR.
const minTextLayerLen = 20

type StatementService struct {
	llm       ChunkAnalyzer
	ocr       ImageOCR
	processor PDFProcessor
	cfg       *config.Config
}

func NewStatementService(llm ChunkAnalyzer, ocr ImageOCR, processor PDFProcessor, cfg *config.Config) *StatementService {
	return &StatementService{
		llm:       llm,
		ocr:       ocr,
		processor: processor,
		cfg:       cfg,
	}
}

// ProcessStatement runs the full pipeline for one uploaded statement: text
// extraction, chunked model analysis, field mapping and template fill. It
// returns the filled K4 form as PDF bytes. The caller owns the statement
// file and its cleanup.
func (s *StatementService) ProcessStatement(ctx context.Context, statementPath string, input dto.FormInput) ([]byte, error) {
	if s.cfg.GeminiAPIKey == "" {
		return nil, configErr("credentials", errors.New("GEMINI_API_KEY not configured on server"))
	}
	if _, err := os.Stat(s.cfg.TemplatePath); err != nil {
		return nil, configErr("template", fmt.Errorf("template file not found at %s", s.cfg.TemplatePath))
	}

	result, err := s.AnalyzeStatement(ctx, statementPath)
	if err != nil {
		return nil, err
	}

	fields, dropped := MapFormFields(result, input, time.Now(), s.cfg.MaxTradeRows)
	if dropped > 0 {
		log.Printf("Warning: %d trades beyond the %d-row cap were omitted", dropped, s.cfg.MaxTradeRows)
	}

	buf, err := FillForm(s.cfg.TemplatePath, fields)
	if err != nil {
		return nil, configErr("fill form", err)
	}

	return buf.Bytes(), nil
}

// AnalyzeStatement extracts the statement text, splits it into bounded
// chunks and sends each chunk to the model. Chunk analyses run concurrently
// but the parsed trades keep original chunk order.
func (s *StatementService) AnalyzeStatement(ctx context.Context, statementPath string) (dto.AnalysisResult, error) {
	data, err := os.ReadFile(statementPath)
	if err != nil {
		return dto.AnalysisResult{}, inputErr("read statement", err)
	}

	pages, err := s.processor.ExtractPageTexts(data)
	if err != nil {
		return dto.AnalysisResult{}, inputErr("parse statement", err)
	}

	if textLen(pages) < minTextLayerLen {
		pages, err = s.ocrPages(data)
		if err != nil {
			return dto.AnalysisResult{}, inputErr("ocr statement", err)
		}
	}

	chunks := ChunkPages(pages, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if len(chunks) == 0 {
		return dto.AnalysisResult{}, inputErr("chunk statement", errors.New("no text could be extracted from the statement"))
	}

	log.Printf("Analyzing statement in %d chunks", len(chunks))

	replies := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)

	limit := s.cfg.MaxConcurrentChunks
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, chunk := range chunks {
		g.Go(func() error {
			reply, err := s.llm.AnalyzeChunk(gctx, BuildAnalysisPrompt(chunk))
			if err != nil {
				return err
			}
			replies[i] = reply
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.AnalysisResult{}, upstreamErr("analyze chunk", err)
	}

	result := utils.ParseModelReplies(replies)
	log.Printf("Parsed %d instruments, total gain %s, total loss %s",
		len(result.Instruments), result.TotalGain.String(), result.TotalLoss.String())

	return result, nil
}

// ocrPages is the scanned-statement fallback: extract the page images and
// OCR them one by one. Pages that fail OCR are skipped.
func (s *StatementService) ocrPages(data []byte) ([]string, error) {
	log.Println("Statement has no usable text layer, attempting image-based OCR")

	images, err := s.processor.ExtractImages(data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images from statement: %w", err)
	}
	if len(images) == 0 {
		return nil, errors.New("statement contains no extractable page images")
	}

	var pages []string
	for _, img := range images {
		text, err := s.ocr.ExtractTextFromImage(img)
		if err != nil {
			log.Printf("OCR failed for a statement page: %v", err)
			continue
		}
		pages = append(pages, text)
	}

	if textLen(pages) < minTextLayerLen {
		return nil, errors.New("no text could be extracted from the statement")
	}
	return pages, nil
}

func textLen(pages []string) int {
	total := 0
	for _, page := range pages {
		total += len(strings.TrimSpace(page))
	}
	return total
}
