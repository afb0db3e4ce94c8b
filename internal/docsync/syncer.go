package docsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// namePatterns select which files in the docs directory count as procedure
// documents. Matching is case-insensitive on the base name.
var namePatterns = []string{"sop", "procedure", "manual", "process", "instruction", "troubleshoot"}

var equipmentTerms = []string{"trackman", "projector", "simulator", "computer", "hvac"}

var keywordTerms = []string{"emergency", "maintenance", "troubleshoot", "repair", "replace"}

// Syncer scans a local directory for SOP documents and parses them into
// structured procedure documents.
type Syncer struct {
	docsDir string
	logger  *zap.Logger
}

// NewSyncer creates a syncer rooted at docsDir.
func NewSyncer(docsDir string, logger *zap.Logger) *Syncer {
	return &Syncer{
		docsDir: docsDir,
		logger:  logger,
	}
}

// SyncAll walks the docs directory and parses every matching document. A
// single unreadable file is reported in the error list, never fatal; only a
// missing or unreadable directory aborts the sync.
func (s *Syncer) SyncAll(ctx context.Context) ([]models.ProcedureDocument, []string, error) {
	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read docs directory %s: %w", s.docsDir, err)
	}

	var docs []models.ProcedureDocument
	var errs []string

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if entry.IsDir() || !isProcedureFile(entry.Name()) {
			continue
		}

		path := filepath.Join(s.docsDir, entry.Name())
		content, err := s.extractContent(path)
		if err != nil {
			errs = append(errs, fmt.Sprintf("failed to sync %s: %v", entry.Name(), err))
			s.logger.Warn("Document sync failed",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		doc := ParseDocument(entry.Name(), content)
		doc.SourceLink = path
		docs = append(docs, doc)
		s.logger.Debug("Document synced",
			zap.String("title", doc.Title),
			zap.Int("steps", len(doc.Steps)))
	}

	s.logger.Info("Document sync complete",
		zap.Int("synced", len(docs)),
		zap.Int("errors", len(errs)))

	return docs, errs, nil
}

// extractContent reads plain-text files directly and extracts text from PDFs
// page by page.
func (s *Syncer) extractContent(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	case ".pdf":
		return extractPDFText(path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func extractPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var builder strings.Builder
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", pageNum, err)
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// ParseDocument turns raw document text into a structured procedure document:
// numbered lines become steps, and equipment/keyword mentions are tagged.
func ParseDocument(fileName, content string) models.ProcedureDocument {
	doc := models.ProcedureDocument{
		ID:         documentID(fileName),
		Title:      titleFromFileName(fileName),
		Content:    content,
		LastSynced: time.Now(),
	}

	seenEquipment := map[string]bool{}
	seenKeywords := map[string]bool{}

	for _, rawLine := range strings.Split(content, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if isNumberedStep(line) {
			doc.Steps = append(doc.Steps, line)
		}

		lower := strings.ToLower(line)
		for _, term := range equipmentTerms {
			if strings.Contains(lower, term) && !seenEquipment[term] {
				seenEquipment[term] = true
				doc.Equipment = append(doc.Equipment, term)
			}
		}
		for _, keyword := range keywordTerms {
			if strings.Contains(lower, keyword) && !seenKeywords[keyword] {
				seenKeywords[keyword] = true
				doc.Keywords = append(doc.Keywords, keyword)
			}
		}
	}

	return doc
}

func isProcedureFile(name string) bool {
	lower := strings.ToLower(name)
	switch filepath.Ext(lower) {
	case ".txt", ".md", ".pdf":
	default:
		return false
	}
	for _, pattern := range namePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// isNumberedStep matches "1. do something" style lines.
func isNumberedStep(line string) bool {
	if line == "" || !unicode.IsDigit(rune(line[0])) {
		return false
	}
	return strings.Contains(line, ". ")
}

func documentID(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return strings.ToLower(strings.ReplaceAll(base, " ", "-"))
}

func titleFromFileName(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return strings.ReplaceAll(strings.ReplaceAll(base, "_", " "), "-", " ")
}
