package upload

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/PabloGalante/studybuddy/internal/domain"
	"github.com/PabloGalante/studybuddy/internal/observability"
)

const (
	MaxAvatarBytes = 5 * 1024 * 1024

	MsgInvalidAvatar  = "Please select a valid image file (JPG, PNG, GIF, etc.)"
	MsgAvatarTooLarge = "Image size must be less than 5MB"
	MsgAvatarFailed   = "Failed to upload image. Please try again."

	avatarDir = "avatars"
)

// AvatarService stores profile pictures and points the profile at them.
type AvatarService struct {
	storage  domain.ObjectStorage
	profiles domain.ProfileStore
	now      func() time.Time
}

// NewAvatarService accepts a nil storage; Upload then fails with
// domain.ErrNotConfigured.
func NewAvatarService(storage domain.ObjectStorage, profiles domain.ProfileStore) *AvatarService {
	return &AvatarService{
		storage:  storage,
		profiles: profiles,
		now:      time.Now,
	}
}

// Upload stores file under avatars/<user>-<unix millis>.<ext>, updates the
// profile and removes the previous avatar object.
func (s *AvatarService) Upload(ctx context.Context, userID domain.UserID, file domain.Upload) (*domain.UserProfile, error) {
	if !strings.HasPrefix(file.ContentType, "image/") {
		return nil, domain.NewValidationError(MsgInvalidAvatar)
	}
	size := file.Size
	if size == 0 {
		size = int64(len(file.Data))
	}
	if size > MaxAvatarBytes {
		return nil, domain.NewValidationError(MsgAvatarTooLarge)
	}
	if s.storage == nil {
		return nil, fmt.Errorf("avatar storage: %w", domain.ErrNotConfigured)
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	var previous string
	if p, err := s.profiles.GetProfile(ctx, userID); err == nil {
		previous = p.AvatarURL
	}

	name := fmt.Sprintf("%s-%d.%s", userID, s.now().UnixMilli(), avatarExt(file))
	objectPath := avatarDir + "/" + name

	url, err := s.storage.Put(ctx, objectPath, file.ContentType, file.Data)
	if err != nil {
		log.Error("avatar upload failed", "path", objectPath, "error", err)
		return nil, domain.NewCollaboratorError(MsgAvatarFailed, err)
	}

	profile, err := s.profiles.UpdateAvatar(ctx, userID, url)
	if err != nil {
		log.Error("avatar url update failed", "error", err)
		return nil, domain.NewCollaboratorError(MsgAvatarFailed, err)
	}

	if previous != "" {
		if old := path.Base(previous); old != "" && old != name && old != "." && old != "/" {
			if err := s.storage.Remove(ctx, avatarDir+"/"+old); err != nil {
				log.Warn("old avatar cleanup failed", "path", old, "error", err)
			}
		}
	}

	log.Info("avatar updated", "path", objectPath)
	return profile, nil
}

// avatarExt is the part of the file name after the last dot, or the image
// subtype when the name has none.
func avatarExt(file domain.Upload) string {
	if i := strings.LastIndexByte(file.Name, '.'); i >= 0 && i < len(file.Name)-1 {
		return file.Name[i+1:]
	}
	sub := strings.TrimPrefix(file.ContentType, "image/")
	if i := strings.IndexAny(sub, "+;"); i >= 0 {
		sub = sub[:i]
	}
	if sub == "" {
		return "img"
	}
	return sub
}
