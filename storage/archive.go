package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/knockout-cup/models"
)

const archiveContentType = "application/json"

// ArchiveKey is the object key of a finished tournament's final snapshot.
func ArchiveKey(tournamentID string) string {
	return fmt.Sprintf("tournaments/%s/final.json", tournamentID)
}

// SnapshotArchive stores final tournament snapshots through a FileUploader.
type SnapshotArchive struct {
	uploader FileUploader
}

func NewSnapshotArchive(uploader FileUploader) *SnapshotArchive {
	return &SnapshotArchive{uploader: uploader}
}

func (a *SnapshotArchive) Store(ctx context.Context, snapshot *models.TournamentSnapshot) (*UploadResult, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot %s: %w", snapshot.ID, err)
	}
	return a.uploader.Upload(ctx, ArchiveKey(snapshot.ID), archiveContentType, bytes.NewReader(body))
}

// Remove deletes the archived snapshot, e.g. after a completed tournament is reset.
func (a *SnapshotArchive) Remove(ctx context.Context, tournamentID string) error {
	return a.uploader.Delete(ctx, ArchiveKey(tournamentID))
}

func (a *SnapshotArchive) URL(tournamentID string) string {
	return a.uploader.GetPublicURL(ArchiveKey(tournamentID))
}
