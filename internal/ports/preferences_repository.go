package ports

import (
	"context"

	"github.com/bnema/parent-portal/internal/domain"
)

// PreferencesRepository stores settings per parent. Load fails with
// domain.ErrPreferencesNotFound until the first Save for that user.
type PreferencesRepository interface {
	Load(ctx context.Context, userID domain.UserID) (domain.Preferences, error)
	Save(ctx context.Context, userID domain.UserID, prefs domain.Preferences) error
}
