package scan

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menulens/internal/apperr"
	"menulens/internal/llm"
	"menulens/internal/menu"
)

func seedScan(t *testing.T, repo Repository, imageURL string) *Scan {
	t.Helper()
	record := &Scan{
		ID:        "scan-1",
		UserID:    "user-1",
		ImageURL:  imageURL,
		Language:  "zh_TW",
		Status:    StatusUploaded,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatal(err)
	}
	return record
}

func TestWorkerProcessesPendingScan(t *testing.T) {
	imageBytes := []byte("fake image bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(imageBytes)
	}))
	defer server.Close()

	scans := NewInMemoryRepository()
	menus := menu.NewInMemoryRepository()
	parser := &fakeParser{result: llm.Result{Items: parsedItems(t)}}
	worker := NewWorker(scans, menus, parser)

	seedScan(t, scans, server.URL+"/menus/user-1/abc.jpg")

	if err := worker.ProcessOne(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parser.calls != 1 {
		t.Fatalf("expected one parse call, got %d", parser.calls)
	}
	if parser.lastImage != base64.StdEncoding.EncodeToString(imageBytes) {
		t.Fatal("worker must parse the fetched image bytes")
	}

	stored, err := scans.Get(context.Background(), "scan-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != StatusParsed || stored.MenuID == nil {
		t.Fatalf("scan not finalized: %+v", stored)
	}

	saved, err := menus.GetMenu(context.Background(), *stored.MenuID)
	if err != nil {
		t.Fatalf("menu not persisted: %v", err)
	}
	if len(saved.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(saved.Items))
	}

	owned, err := menus.ListMenus(context.Background(), "user-1")
	if err != nil || len(owned) != 1 {
		t.Fatalf("menu must belong to the scan's user: %v %d", err, len(owned))
	}
}

func TestWorkerNoPendingWorkIsNotAnError(t *testing.T) {
	worker := NewWorker(NewInMemoryRepository(), menu.NewInMemoryRepository(), &fakeParser{})

	if err := worker.ProcessOne(context.Background()); err != nil {
		t.Fatalf("idle worker must not error: %v", err)
	}
}

// A failing job is marked FAILED and must not stop the loop.
func TestWorkerParseFailureDoesNotBlockLoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bytes"))
	}))
	defer server.Close()

	scans := NewInMemoryRepository()
	parser := &fakeParser{fail: apperr.New(apperr.CodeNoMenuItems, "nothing found", "")}
	worker := NewWorker(scans, menu.NewInMemoryRepository(), parser)

	seedScan(t, scans, server.URL+"/img.jpg")

	if err := worker.ProcessOne(context.Background()); err != nil {
		t.Fatalf("per-job failure must not surface: %v", err)
	}

	stored, err := scans.Get(context.Background(), "scan-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != StatusFailed || stored.Error == nil {
		t.Fatalf("expected FAILED with reason, got %+v", stored)
	}
}

func TestWorkerMarksUnfetchableImageFailed(t *testing.T) {
	scans := NewInMemoryRepository()
	worker := NewWorker(scans, menu.NewInMemoryRepository(), &fakeParser{})

	seedScan(t, scans, "http://127.0.0.1:1/unreachable.jpg")

	if err := worker.ProcessOne(context.Background()); err != nil {
		t.Fatalf("fetch failure must not surface: %v", err)
	}

	stored, err := scans.Get(context.Background(), "scan-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != StatusFailed {
		t.Fatalf("expected FAILED, got %s", stored.Status)
	}
}
