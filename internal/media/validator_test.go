package media

import (
	"errors"
	"strings"
	"testing"

	"menulens/internal/apperr"
)

func TestValidateAcceptsSupportedImage(t *testing.T) {
	f := File{Name: "menu.jpg", ContentType: TypeJPEG, Data: make([]byte, 1024)}

	if err := ScanPolicy().Validate(f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnsupportedMediaType(t *testing.T) {
	f := File{Name: "menu.gif", ContentType: "image/gif", Data: make([]byte, 1024)}

	err := ScanPolicy().Validate(f)
	if err == nil {
		t.Fatal("expected error for unsupported media type")
	}
	if apperr.CodeOf(err) != apperr.CodeInvalidMediaType {
		t.Fatalf("expected invalid_media_type, got %s", apperr.CodeOf(err))
	}
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	f := File{Name: "menu.png", ContentType: TypePNG, Data: make([]byte, 16*MiB)}

	err := ScanPolicy().Validate(f)
	if err == nil {
		t.Fatal("expected error for oversized file")
	}
	if apperr.CodeOf(err) != apperr.CodeFileTooLarge {
		t.Fatalf("expected file_too_large, got %s", apperr.CodeOf(err))
	}

	var e *apperr.Error
	if !errors.As(err, &e) {
		t.Fatal("expected an apperr.Error")
	}
	if !strings.Contains(e.UserMessage, "15 MiB") {
		t.Fatalf("user message should name the limit, got %q", e.UserMessage)
	}
}

// Media type is checked before size, so a bad type on an oversized
// file reports the type problem.
func TestValidateRuleOrder(t *testing.T) {
	f := File{Name: "menu.gif", ContentType: "image/gif", Data: make([]byte, 16*MiB)}

	err := ScanPolicy().Validate(f)
	if apperr.CodeOf(err) != apperr.CodeInvalidMediaType {
		t.Fatalf("expected invalid_media_type first, got %s", apperr.CodeOf(err))
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	f := File{Name: "menu.jpg", ContentType: TypeJPEG, Data: make([]byte, 8*MiB)}
	p := ScanPolicy()

	first := p.Validate(f)
	for i := 0; i < 10; i++ {
		if got := p.Validate(f); (got == nil) != (first == nil) {
			t.Fatal("validator returned different results for identical input")
		}
	}
}

// The simple upload flow uses the same validator with a 10 MiB cap.
func TestSimpleUploadPolicyIsStricter(t *testing.T) {
	f := File{Name: "avatar.webp", ContentType: TypeWebP, Data: make([]byte, 12*MiB)}

	if err := SimpleUploadPolicy().Validate(f); apperr.CodeOf(err) != apperr.CodeFileTooLarge {
		t.Fatalf("expected file_too_large under the 10 MiB policy, got %v", err)
	}

	small := File{Name: "avatar.webp", ContentType: TypeWebP, Data: make([]byte, 2*MiB)}
	if err := SimpleUploadPolicy().Validate(small); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
