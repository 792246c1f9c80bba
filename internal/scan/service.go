package scan

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"menulens/internal/apperr"
	"menulens/internal/llm"
	"menulens/internal/media"
	"menulens/internal/menu"
)

// ObjectStore is the transfer collaborator. Failures from it are
// transfer errors that feed the lifecycle's error transition.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Parser is the gateway surface the service needs; tests plug in fakes.
type Parser interface {
	ParseImage(ctx context.Context, imageBase64, language string) (llm.Result, error)
}

type Service struct {
	repo     Repository
	menus    menu.Repository
	store    ObjectStore
	parser   Parser
	policy   media.ValidatePolicy
	compress media.CompressConfig
}

func NewService(repo Repository, menus menu.Repository, store ObjectStore, parser Parser) *Service {
	return &Service{
		repo:     repo,
		menus:    menus,
		store:    store,
		parser:   parser,
		policy:   media.ScanPolicy(),
		compress: media.DefaultCompressConfig(),
	}
}

// Scan runs the full upload lifecycle for one menu photo:
// validate, compress, store, parse, materialize. Every fallible step
// reports into the lifecycle, and every failure funnels through its
// single error transition.
//
// Progress checkpoints: 20 after validation, 40 after compression,
// 70 after the image is stored, 100 on success.
func (s *Service) Scan(
	ctx context.Context,
	userID string,
	f media.File,
	language string,
	lc *Lifecycle,
) (*menu.ParsedMenu, *Scan, error) {

	if err := s.policy.Validate(f); err != nil {
		// Rejected while still idle: no compressing or uploading
		// transition ever happens for an invalid file.
		lc.SetError(apperr.UserMessageOf(err))
		return nil, nil, err
	}

	if !llm.SupportedLanguage(language) {
		err := apperr.New(
			apperr.CodeInvalidLanguage,
			"unsupported target language "+language,
			"This translation language is not supported.",
		)
		lc.SetError(apperr.UserMessageOf(err))
		return nil, nil, err
	}

	lc.StartCompression()
	lc.SetProgress(20)

	compressed, err := media.Compress(f, s.compress)
	if err != nil {
		lc.SetError(apperr.UserMessageOf(err))
		return nil, nil, err
	}

	lc.StartUploading()
	lc.SetProgress(40)

	key := fmt.Sprintf("menus/%s/%s%s", userID, uuid.New().String(), extFor(compressed.ContentType))
	imageURL, err := s.store.Upload(ctx, key, compressed.Data, compressed.ContentType)
	if err != nil {
		lc.SetError(apperr.UserMessageOf(err))
		return nil, nil, err
	}

	record := &Scan{
		ID:        uuid.New().String(),
		UserID:    userID,
		ImageURL:  imageURL,
		Language:  language,
		Status:    StatusUploaded,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		lc.SetError(apperr.UserMessageOf(err))
		return nil, nil, err
	}

	lc.SetProgress(70)

	imageBase64 := base64.StdEncoding.EncodeToString(compressed.Data)
	result, err := s.parser.ParseImage(ctx, imageBase64, language)
	if err != nil {
		// The stored image stays UPLOADED/FAILED so the worker or an
		// explicit retry can pick it up without re-uploading.
		_ = s.repo.MarkFailed(ctx, record.ID, err.Error())
		lc.SetError(apperr.UserMessageOf(err))
		return nil, record, err
	}

	m, err := menu.NewParsedMenu(
		uuid.New().String(),
		imageURL,
		result.Items,
		language,
		time.Now().UTC(),
		result.Confidence,
	)
	if err != nil {
		_ = s.repo.MarkFailed(ctx, record.ID, err.Error())
		lc.SetError(apperr.UserMessageOf(err))
		return nil, record, err
	}

	if err := s.menus.SaveMenu(ctx, userID, m); err != nil {
		_ = s.repo.MarkFailed(ctx, record.ID, err.Error())
		lc.SetError(apperr.UserMessageOf(err))
		return nil, record, err
	}
	if err := s.repo.MarkParsed(ctx, record.ID, m.ID); err != nil {
		lc.SetError(apperr.UserMessageOf(err))
		return nil, record, err
	}

	record.Status = StatusParsed
	record.MenuID = &m.ID

	lc.CompleteSuccess()
	return m, record, nil
}

func (s *Service) GetScan(ctx context.Context, id, userID string) (*Scan, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, ErrScanNotFound
	}
	return record, nil
}

func (s *Service) RetryScan(ctx context.Context, id, userID string) error {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return ErrScanNotFound
	}
	return s.repo.Retry(ctx, id)
}

func extFor(contentType string) string {
	switch contentType {
	case media.TypePNG:
		return ".png"
	case media.TypeWebP:
		return ".webp"
	default:
		return ".jpg"
	}
}
