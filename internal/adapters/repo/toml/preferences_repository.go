package toml

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/parent-portal/internal/domain"
	"github.com/bnema/parent-portal/internal/ports"
	"github.com/spf13/viper"
)

const (
	preferencesFileName = "preferences.toml"
	preferencesLabel    = "preferences"
)

// PreferencesRepository keeps one settings entry per parent in a single
// file, so switching accounts on the same machine keeps each parent's
// choices.
type PreferencesRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)

func NewPreferencesRepository(cfg *viper.Viper) (*PreferencesRepository, error) {
	path, err := resolvePath(cfg, PrefsPathKey, preferencesFileName)
	if err != nil {
		return nil, err
	}

	return &PreferencesRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *PreferencesRepository) Load(ctx context.Context, userID domain.UserID) (domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preferences{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Preferences{}, err
	}

	for _, entry := range file.Users {
		if entry.UserID == string(userID) {
			return fromPreferencesSchema(entry), nil
		}
	}

	return domain.Preferences{}, fmt.Errorf("load preferences for %q: %w", userID, domain.ErrPreferencesNotFound)
}

func (r *PreferencesRepository) Save(ctx context.Context, userID domain.UserID, prefs domain.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("save preferences: %w", domain.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	entry := toPreferencesSchema(userID, prefs)
	replaced := false
	for i := range file.Users {
		if file.Users[i].UserID == entry.UserID {
			file.Users[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		file.Users = append(file.Users, entry)
	}

	return writeTOMLFile(r.path, preferencesLabel, file)
}

func (r *PreferencesRepository) readSchema() (preferencesFileSchema, error) {
	var file preferencesFileSchema
	if _, err := readTOMLFile(r.path, preferencesLabel, &file); err != nil {
		return preferencesFileSchema{}, err
	}
	if err := checkVersion(preferencesLabel, file.Version); err != nil {
		return preferencesFileSchema{}, err
	}
	if file.Version == 0 {
		file.Version = currentSchemaVersion
	}

	return file, nil
}

func toPreferencesSchema(userID domain.UserID, prefs domain.Preferences) preferencesSchema {
	return preferencesSchema{
		UserID:             string(userID),
		EmailNotifications: prefs.EmailNotifications,
		PushNotifications:  prefs.PushNotifications,
		GradeAlerts:        prefs.GradeAlerts,
		AttendanceAlerts:   prefs.AttendanceAlerts,
		MessageAlerts:      prefs.MessageAlerts,
		Term:               string(prefs.Term),
	}
}

func fromPreferencesSchema(entry preferencesSchema) domain.Preferences {
	return domain.Preferences{
		EmailNotifications: entry.EmailNotifications,
		PushNotifications:  entry.PushNotifications,
		GradeAlerts:        entry.GradeAlerts,
		AttendanceAlerts:   entry.AttendanceAlerts,
		MessageAlerts:      entry.MessageAlerts,
		Term:               domain.Term(entry.Term),
	}
}
