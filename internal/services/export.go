package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/memberdir/apiserver/internal/storage"
)

// ExportService writes roster snapshots to object storage.
type ExportService struct {
	members *MemberService
	store   storage.ObjectStorage
}

func NewExportService(members *MemberService, store storage.ObjectStorage) *ExportService {
	return &ExportService{members: members, store: store}
}

// Snapshot uploads the full members table as a JSON document and
// returns the object key it was written under.
func (s *ExportService) Snapshot(ctx context.Context) (string, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list members: %w", err)
	}

	data, err := json.MarshalIndent(members, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	if err := s.store.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := fmt.Sprintf("members/%s-%s.json", time.Now().UTC().Format("20060102T150405Z"), uuid.NewString())
	if err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}
	return key, nil
}
