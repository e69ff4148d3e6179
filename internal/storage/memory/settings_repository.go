package memory

import (
	"fmt"
	"sort"

	"github.com/vladislavdragonenkov/shopster/domain"
)

type settingsRepository struct {
	s *Storage
}

func (r *settingsRepository) Get(id int32) (domain.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	setting, ok := r.s.settings[id]
	if !ok {
		return domain.Setting{}, fmt.Errorf("setting %d: %w", id, domain.ErrNotFound)
	}
	return setting, nil
}

func (r *settingsRepository) GetAll() ([]domain.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	settings := make([]domain.Setting, 0, len(r.s.settings))
	for _, setting := range r.s.settings {
		settings = append(settings, setting)
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].ID < settings[j].ID })
	return settings, nil
}

func (r *settingsRepository) GetByTitle(title string) (domain.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, setting := range r.s.settings {
		if setting.Title == title {
			return setting, nil
		}
	}
	return domain.Setting{}, fmt.Errorf("setting %q: %w", title, domain.ErrNotFound)
}

func (r *settingsRepository) Insert(setting domain.Setting) (domain.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.settingSeq++
	setting.ID = r.s.settingSeq
	r.s.settings[setting.ID] = setting
	return setting, nil
}

func (r *settingsRepository) UpdateValue(id int32, value string) (domain.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	setting, ok := r.s.settings[id]
	if !ok {
		return domain.Setting{}, fmt.Errorf("setting %d: %w", id, domain.ErrNotFound)
	}
	setting.Value = value
	r.s.settings[id] = setting
	return setting, nil
}

func (r *settingsRepository) Delete(id int32) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.settings[id]; !ok {
		return false, nil
	}
	delete(r.s.settings, id)
	return true, nil
}
