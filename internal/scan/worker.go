package scan

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"menulens/internal/menu"
)

// Worker re-parses scans that were stored but not successfully parsed,
// typically after an explicit retry reset a FAILED scan. It claims one
// row at a time and never lets a bad job block the loop.
type Worker struct {
	repo   Repository
	menus  menu.Repository
	parser Parser
	http   *http.Client
}

func NewWorker(repo Repository, menus menu.Repository, parser Parser) *Worker {
	return &Worker{
		repo:   repo,
		menus:  menus,
		parser: parser,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// ProcessOne claims and processes a single pending scan. No pending
// work is not an error.
func (w *Worker) ProcessOne(ctx context.Context) error {
	record, err := w.repo.ClaimPending(ctx)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	log.Printf("parse worker: processing scan=%s", record.ID)

	data, err := w.fetchImage(ctx, record.ImageURL)
	if err != nil {
		_ = w.repo.MarkFailed(ctx, record.ID, err.Error())
		return nil
	}

	imageBase64 := base64.StdEncoding.EncodeToString(data)
	result, err := w.parser.ParseImage(ctx, imageBase64, record.Language)
	if err != nil {
		_ = w.repo.MarkFailed(ctx, record.ID, err.Error())
		return nil
	}

	m, err := menu.NewParsedMenu(
		uuid.New().String(),
		record.ImageURL,
		result.Items,
		record.Language,
		time.Now().UTC(),
		result.Confidence,
	)
	if err != nil {
		_ = w.repo.MarkFailed(ctx, record.ID, err.Error())
		return nil
	}

	if err := w.menus.SaveMenu(ctx, record.UserID, m); err != nil {
		_ = w.repo.MarkFailed(ctx, record.ID, err.Error())
		return nil
	}

	if err := w.repo.MarkParsed(ctx, record.ID, m.ID); err != nil {
		return err
	}

	log.Printf("parse worker: scan=%s parsed into menu=%s (%d items)", record.ID, m.ID, len(m.Items))
	return nil
}

func (w *Worker) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := w.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
