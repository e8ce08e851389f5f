package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"crmapi/internal/model"
	"crmapi/internal/storage"
)

const maxFilenameLen = 255

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a client-supplied name to a safe base name.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, "._")
	if len(name) > maxFilenameLen {
		ext := filepath.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		name = name[:maxFilenameLen-len(ext)] + ext
	}
	if name == "" {
		return "file"
	}
	return name
}

func attachmentKey(ticketID, filename string) string {
	return path.Join("tickets", ticketID, uuid.New().String()+strings.ToLower(filepath.Ext(filename)))
}

func (s *ticketService) UploadAttachment(ctx context.Context, ticketID string, r io.Reader, in UploadInput) (*model.Attachment, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if _, err := s.Get(ctx, ticketID); err != nil {
		return nil, err
	}

	filename := SanitizeFilename(in.Filename)
	key := attachmentKey(ticketID, filename)

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": filename,
			"ticket-id":         ticketID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	a, err := s.attachments.Create(ctx, &model.Attachment{
		ID:          uuid.New().String(),
		TicketID:    ticketID,
		Filename:    filename,
		StoragePath: info.Key,
		Size:        info.Size,
		ContentType: info.ContentType,
		CreatedAt:   s.now(),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", translate(err))
	}
	return a, nil
}

func (s *ticketService) ListAttachments(ctx context.Context, ticketID string) ([]model.Attachment, error) {
	if _, err := s.Get(ctx, ticketID); err != nil {
		return nil, err
	}
	list, err := s.attachments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Attachment{}
	}
	return list, nil
}

func (s *ticketService) GetAttachment(ctx context.Context, id string) (*model.Attachment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (s *ticketService) AttachmentURL(ctx context.Context, id string) (string, error) {
	a, err := s.GetAttachment(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, a.StoragePath, 0)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return u, nil
}

func (s *ticketService) OpenAttachment(ctx context.Context, id string) (io.ReadCloser, *model.Attachment, error) {
	a, err := s.GetAttachment(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, a.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open object: %w", err)
	}
	return rc, a, nil
}

func (s *ticketService) DeleteAttachment(ctx context.Context, id string) error {
	a, err := s.GetAttachment(ctx, id)
	if err != nil {
		return err
	}
	// Keep the row if the object survives so it can still be found.
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.attachments.Delete(ctx, id)
}
